package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// QueryService runs a validated query over a fresh bootstrap connection.
// Each execution acquires its own connection and releases it on every exit
// path; nothing is pooled across requests because the minted password backing
// the connection is single-flow-scoped.
type QueryService struct {
	bootstrap *BootstrapService
}

func NewQueryService(bootstrap *BootstrapService) *QueryService {
	return &QueryService{bootstrap: bootstrap}
}

type ExecuteQueryRequest struct {
	Query    string `json:"query" binding:"required"`
	Instance string `json:"instance,omitempty"`
	Database string `json:"database,omitempty"`
}

type QueryResult struct {
	Columns       []string                 `json:"columns"`
	Rows          []map[string]interface{} `json:"rows"`
	RowCount      int                      `json:"row_count"`
	ExecutionTime int64                    `json:"execution_time_ms"`
}

var commentPattern = regexp.MustCompile(`--.*|/\*[\s\S]*?\*/`)

// ValidateSQLQuery blocks statements that have no place in a connectivity
// verification endpoint.
func (s *QueryService) ValidateSQLQuery(query string) error {
	normalized := strings.ToUpper(strings.TrimSpace(query))
	normalized = commentPattern.ReplaceAllString(normalized, "")
	normalized = strings.TrimSpace(normalized)

	if normalized == "" {
		return errors.New("query cannot be empty")
	}

	dangerousKeywords := []string{
		"DROP DATABASE",
		"DROP SCHEMA",
		"TRUNCATE",
		"ALTER DATABASE",
		"CREATE DATABASE",
		"CREATE SCHEMA",
	}
	for _, keyword := range dangerousKeywords {
		if strings.Contains(normalized, keyword) {
			return fmt.Errorf("operation '%s' is not allowed", keyword)
		}
	}

	// Reject multiple statements; one trailing semicolon is fine.
	if strings.Contains(normalized, ";") {
		nonEmptyParts := 0
		for _, part := range strings.Split(normalized, ";") {
			if strings.TrimSpace(part) != "" {
				nonEmptyParts++
			}
		}
		if nonEmptyParts > 1 {
			return errors.New("multiple statements are not allowed")
		}
	}

	return nil
}

// ExecuteQuery validates the query, bootstraps a connection, runs it, and
// closes the connection before returning.
func (s *QueryService) ExecuteQuery(ctx context.Context, req *ExecuteQueryRequest) (*QueryResult, *BootstrapReport, error) {
	if err := s.ValidateSQLQuery(req.Query); err != nil {
		return nil, nil, err
	}

	conn, report, err := s.bootstrap.Connect(ctx, req.Instance, req.Database)
	if err != nil {
		return nil, nil, err
	}
	defer conn.Close()

	start := time.Now()

	rows, err := conn.Pool().Query(ctx, req.Query)
	if err != nil {
		return nil, report, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns := make([]string, 0, len(rows.FieldDescriptions()))
	for _, fd := range rows.FieldDescriptions() {
		columns = append(columns, fd.Name)
	}

	var resultRows []map[string]interface{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, report, fmt.Errorf("failed to read row: %w", err)
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, report, fmt.Errorf("query failed: %w", err)
	}

	result := &QueryResult{
		Columns:       columns,
		Rows:          resultRows,
		RowCount:      len(resultRows),
		ExecutionTime: time.Since(start).Milliseconds(),
	}
	return result, report, nil
}
