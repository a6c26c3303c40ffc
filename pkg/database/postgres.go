package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/mohammedgidrah/testing-hotel-sub000/config"
)

type Database interface {
	GetDB() *sqlx.DB
	Close() error
}

type postgres struct {
	db *sqlx.DB
}

// DSN builds the lib/pq connection string from cfg.
func DSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode)
}

func NewPostgresDatabase(cfg *config.Config, log logrus.FieldLogger) (Database, error) {
	db, err := sqlx.Connect("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("connect postgres %s:%d: %w", cfg.Database.Host, cfg.Database.Port, err)
	}

	log.WithFields(logrus.Fields{"db": cfg.Database.DBName, "port": cfg.Database.Port}).Info("connected to postgres")

	return &postgres{db: db}, nil
}

func (p *postgres) GetDB() *sqlx.DB {
	return p.db
}

func (p *postgres) Close() error {
	return p.db.Close()
}
