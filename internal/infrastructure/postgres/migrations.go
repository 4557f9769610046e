package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrateDirection はマイグレーションの方向
type MigrateDirection string

const (
	MigrateUp   MigrateDirection = "up"
	MigrateDown MigrateDirection = "down"
)

// ParseMigrateDirection は文字列からマイグレーションの方向を解釈する
func ParseMigrateDirection(s string) (MigrateDirection, error) {
	switch MigrateDirection(s) {
	case MigrateUp, "":
		return MigrateUp, nil
	case MigrateDown:
		return MigrateDown, nil
	default:
		return "", fmt.Errorf("不明なマイグレーション方向です: %q", s)
	}
}

// RunMigrations はデータベースマイグレーションを最新まで適用する
func RunMigrations(db *sql.DB, migrationsPath string) error {
	return Migrate(db, migrationsPath, MigrateUp)
}

// Migrate は指定した方向にマイグレーションを実行する
func Migrate(db *sql.DB, migrationsPath string, direction MigrateDirection) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("マイグレーションドライバー作成エラー: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationsPath,
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("マイグレーションインスタンス作成エラー: %w", err)
	}

	switch direction {
	case MigrateDown:
		err = m.Down()
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("マイグレーション実行エラー: %w", err)
	}

	return nil
}
