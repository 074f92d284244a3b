// Команда fix-db обслуживает схему и агрегаты опросов вне API:
// принудительно выставляет версию миграций после сбоя и сверяет
// total_score опросов с суммой баллов их вопросов.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/config"
	"github.com/yourusername/survey-api/pkg/database"
	"github.com/yourusername/survey-api/pkg/logger"
)

// totalsDriftQuery находит опросы, у которых total_score разошелся с суммой баллов вопросов
const totalsDriftQuery = `
SELECT s.id, s.total_score, COALESCE(SUM(q.score), 0) AS expected
FROM surveys s
LEFT JOIN questions q ON q.survey_id = s.id
GROUP BY s.id, s.total_score
HAVING s.total_score <> COALESCE(SUM(q.score), 0)
ORDER BY s.id`

// answeredDriftQuery находит вопросы, флаг is_answered которых не совпадает с наличием ответа
const answeredDriftQuery = `
SELECT q.id, q.survey_id, q.is_answered, (a.id IS NOT NULL) AS has_answer
FROM questions q
LEFT JOIN answers a ON a.question_id = q.id
WHERE q.is_answered <> (a.id IS NOT NULL)
ORDER BY q.id`

const repairTotalsQuery = `
UPDATE surveys s
SET total_score = sub.expected, updated_at = NOW()
FROM (
	SELECT s2.id, COALESCE(SUM(q.score), 0) AS expected
	FROM surveys s2
	LEFT JOIN questions q ON q.survey_id = s2.id
	GROUP BY s2.id
) sub
WHERE s.id = sub.id AND s.total_score <> sub.expected`

func main() {
	configPath := flag.String("config", envOr("CONFIG_PATH", "config/config.yaml"), "путь к файлу конфигурации")
	source := flag.String("migrations", database.DefaultMigrationsSource, "источник миграций")
	force := flag.Int("force", -1, "принудительно выставить версию миграций и снять dirty")
	checkTotals := flag.Bool("check", false, "сверить total_score и is_answered с данными")
	repair := flag.Bool("repair", false, "пересчитать total_score расходящихся опросов")
	flag.Parse()
	if *force < 0 && !*checkTotals && !*repair {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging, cfg.Server.Mode).With(zap.String("component", "fix-db"))
	defer func() { _ = log.Sync() }()

	db, err := sql.Open("postgres", cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if *force >= 0 {
		if err := forceVersion(db, *source, *force, log); err != nil {
			log.Fatal("failed to force migration version", zap.Error(err))
		}
	}

	if *checkTotals || *repair {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := reconcile(ctx, db, *repair, log); err != nil {
			log.Fatal("reconciliation failed", zap.Error(err))
		}
	}
}

func forceVersion(db *sql.DB, source string, version int, log *zap.Logger) error {
	m, err := database.NewMigrator(db, source)
	if err != nil {
		return err
	}
	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrateV4.ErrNilVersion) {
		return fmt.Errorf("read current version: %w", err)
	}
	log.Info("forcing migration version",
		zap.Uint("current", current), zap.Bool("dirty", dirty), zap.Int("target", version))
	if err := m.Force(version); err != nil {
		return err
	}
	log.Info("dirty state cleaned, the api can be started normally")
	return nil
}

func reconcile(ctx context.Context, db *sql.DB, repair bool, log *zap.Logger) error {
	rows, err := db.QueryContext(ctx, totalsDriftQuery)
	if err != nil {
		return fmt.Errorf("query total drift: %w", err)
	}
	drifted := 0
	for rows.Next() {
		var id uint
		var total, expected int
		if err := rows.Scan(&id, &total, &expected); err != nil {
			rows.Close()
			return err
		}
		drifted++
		log.Warn("survey total_score drift", zap.Uint("survey_id", id), zap.Int("total_score", total), zap.Int("expected", expected))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = db.QueryContext(ctx, answeredDriftQuery)
	if err != nil {
		return fmt.Errorf("query answered drift: %w", err)
	}
	flagDrifted := 0
	for rows.Next() {
		var questionID, surveyID uint
		var isAnswered, hasAnswer bool
		if err := rows.Scan(&questionID, &surveyID, &isAnswered, &hasAnswer); err != nil {
			rows.Close()
			return err
		}
		flagDrifted++
		log.Warn("question is_answered drift",
			zap.Uint("question_id", questionID), zap.Uint("survey_id", surveyID),
			zap.Bool("is_answered", isAnswered), zap.Bool("has_answer", hasAnswer))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	log.Info("reconciliation finished", zap.Int("surveys_drifted", drifted), zap.Int("questions_drifted", flagDrifted))
	// is_answered не чинится автоматически: нужен разбор, какой из источников верен
	if !repair || drifted == 0 {
		return nil
	}
	res, err := db.ExecContext(ctx, repairTotalsQuery)
	if err != nil {
		return fmt.Errorf("repair totals: %w", err)
	}
	fixed, _ := res.RowsAffected()
	log.Info("survey totals repaired", zap.Int64("surveys", fixed))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
