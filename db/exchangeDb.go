package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/b-castleman/llm-tutor-knowledge-base/models"
)

type ExchangeRepository interface {
	CreateExchange(exchange *models.Exchange) error
	GetExchangeByID(id int) (*models.Exchange, error)
	GetAllExchanges() ([]*models.Exchange, error)
	GetExchangesByDateRange(startDate *time.Time, endDate *time.Time) ([]*models.Exchange, error)
}

type PostgresExchangeRepository struct {
	db *sql.DB
}

func NewPostgresExchangeRepository(databaseURL string) (*PostgresExchangeRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresExchangeRepository{db: db}, nil
}

func (r *PostgresExchangeRepository) CreateExchange(exchange *models.Exchange) error {
	query := `
		INSERT INTO tutor.exchanges (student_name, lesson_subject, question, answer, rating, tutor_reply)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	row := r.db.QueryRow(query, exchange.StudentName, exchange.LessonSubject, exchange.Question, exchange.Answer, exchange.Rating, exchange.TutorReply)

	if err := row.Scan(&exchange.ID, &exchange.CreatedAt); err != nil {
		return fmt.Errorf("failed to create exchange: %w", err)
	}

	return nil
}

func (r *PostgresExchangeRepository) GetExchangeByID(id int) (*models.Exchange, error) {
	query := `
		SELECT id, student_name, lesson_subject, question, answer, rating, tutor_reply, created_at
		FROM tutor.exchanges
		WHERE id = $1`

	exchange := &models.Exchange{}
	row := r.db.QueryRow(query, id)

	err := row.Scan(&exchange.ID, &exchange.StudentName, &exchange.LessonSubject, &exchange.Question, &exchange.Answer, &exchange.Rating, &exchange.TutorReply, &exchange.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("exchange with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get exchange: %w", err)
	}

	return exchange, nil
}

func (r *PostgresExchangeRepository) GetAllExchanges() ([]*models.Exchange, error) {
	return r.GetExchangesByDateRange(nil, nil)
}

func (r *PostgresExchangeRepository) GetExchangesByDateRange(startDate *time.Time, endDate *time.Time) ([]*models.Exchange, error) {
	query := `
		SELECT id, student_name, lesson_subject, question, answer, rating, tutor_reply, created_at
		FROM tutor.exchanges`

	var conditions []string
	var args []interface{}
	argIndex := 1

	if startDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIndex))
		args = append(args, *startDate)
		argIndex++
	}

	if endDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIndex))
		args = append(args, *endDate)
		argIndex++
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []*models.Exchange
	for rows.Next() {
		exchange := &models.Exchange{}
		err := rows.Scan(&exchange.ID, &exchange.StudentName, &exchange.LessonSubject, &exchange.Question, &exchange.Answer, &exchange.Rating, &exchange.TutorReply, &exchange.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		exchanges = append(exchanges, exchange)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over exchanges: %w", err)
	}

	return exchanges, nil
}

func (r *PostgresExchangeRepository) Close() error {
	return r.db.Close()
}
