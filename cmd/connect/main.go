// Command connect runs one connection bootstrap end to end: acquire a bearer
// token, resolve the instance endpoint, mint a database credential, open a
// verified Postgres connection, and optionally run a query.
//
// Retries, when requested with -attempts, always restart the whole flow; a
// stale token or credential from an aborted attempt is never reused.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"lakebase-connect/internal/config"
	"lakebase-connect/internal/retry"
	"lakebase-connect/internal/services"
)

func main() {
	instance := flag.String("instance", "", "instance name (defaults to LAKEBASE_INSTANCE)")
	database := flag.String("database", "", "database name (defaults to DB_DATABASE)")
	query := flag.String("query", "", "optional query to run after the version probe")
	attempts := flag.Uint64("attempts", 1, "number of whole-flow attempts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	tokenService := services.NewIdentityTokenService(cfg)
	instanceService := services.NewInstanceService(cfg)
	credentialService := services.NewCredentialService(cfg)
	bootstrapService := services.NewBootstrapService(cfg, tokenService, instanceService, credentialService)

	op := func() error {
		return run(bootstrapService, *instance, *database, *query)
	}

	if err := retry.Do(context.Background(), *attempts, 2*time.Second, op); err != nil {
		log.Printf("bootstrap failed: %v", err)
		os.Exit(1)
	}
}

func run(bootstrapService *services.BootstrapService, instance, database, query string) error {
	conn, report, err := bootstrapService.Connect(context.Background(), instance, database)
	if err != nil {
		var authErr *services.AuthenticationError
		if errors.As(err, &authErr) {
			// Bad client credentials cannot succeed on a rerun.
			return retry.Permanent(err)
		}
		return err
	}
	defer conn.Close()

	fmt.Printf("connected to %s:%d/%s as %s in %dms\n", report.Host, report.Port, report.Database, report.Username, report.ElapsedMS)
	fmt.Printf("server version: %s\n", report.ServerVersion)

	if query == "" {
		return nil
	}

	queryService := services.NewQueryService(bootstrapService)
	if err := queryService.ValidateSQLQuery(query); err != nil {
		return retry.Permanent(err)
	}

	rows, err := conn.Pool().Query(context.Background(), query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return fmt.Errorf("failed to read row: %w", err)
		}
		fmt.Println(values...)
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	fmt.Printf("%d row(s)\n", count)
	return nil
}
