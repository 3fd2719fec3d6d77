package database

import (
	"strings"
	"testing"
)

func TestMigrationsFS_ContainsSQLFiles(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("migrationsディレクトリの読み込みに失敗した: %v", err)
	}

	if len(entries) == 0 {
		t.Fatal("マイグレーションファイルが埋め込まれていない")
	}

	// up/downがペアで存在すること
	var ups, downs int
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			t.Errorf("SQL以外のファイルが含まれている: %s", name)
		}
		if strings.HasSuffix(name, ".up.sql") {
			ups++
		}
		if strings.HasSuffix(name, ".down.sql") {
			downs++
		}
	}

	if ups != downs {
		t.Errorf("upマイグレーション数 = %d, downマイグレーション数 = %d, ペアであるべき", ups, downs)
	}
}

func TestNewMigrator_InvalidURL_ReturnsError(t *testing.T) {
	_, err := NewMigrator("not-a-valid-url")
	if err == nil {
		t.Fatal("不正なデータベースURLに対してエラーを返すべき")
	}
}
