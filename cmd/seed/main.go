/**
 * @description
 * Account seeding utility. Reads `name,balance` lines from a file and creates
 * the corresponding accounts, skipping names that already exist. Intended for
 * local development and test environments.
 */

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corepay/transfer-service/internal/config"
	"github.com/corepay/transfer-service/internal/domain"
	"github.com/corepay/transfer-service/internal/store"
)

func main() {
	filePath := flag.String("file", "accounts.csv", "path to a file of name,balance lines")
	flag.Parse()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=seed msg=\"config load failed\" err=%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbpool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal component=seed msg=\"database connection failed\" err=%v", err)
	}
	defer dbpool.Close()

	repository := store.NewPostgresRepository(dbpool)

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("level=fatal component=seed msg=\"failed to open seed file\" path=%s err=%v", *filePath, err)
	}
	defer file.Close()

	created, skipped := 0, 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, balance, err := parseSeedLine(line)
		if err != nil {
			log.Printf("level=warn component=seed msg=\"skipping malformed line\" line=%q err=%v", line, err)
			continue
		}

		if _, err := repository.FindAccountByName(ctx, name); err == nil {
			log.Printf("level=info component=seed msg=\"account already exists\" name=%s", name)
			skipped++
			continue
		} else if !errors.Is(err, store.ErrAccountNotFound) {
			log.Fatalf("level=fatal component=seed msg=\"account lookup failed\" name=%s err=%v", name, err)
		}

		account, err := repository.CreateAccount(ctx, &domain.Account{Name: name, Balance: balance})
		if err != nil {
			log.Fatalf("level=fatal component=seed msg=\"account create failed\" name=%s err=%v", name, err)
		}
		log.Printf("level=info component=seed msg=\"account created\" id=%d name=%s balance=%d", account.ID, account.Name, account.Balance)
		created++
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("level=fatal component=seed msg=\"failed to read seed file\" err=%v", err)
	}

	log.Printf("level=info component=seed msg=\"seeding complete\" created=%d skipped=%d", created, skipped)
}

func parseSeedLine(line string) (string, int64, error) {
	name, rawBalance, found := strings.Cut(line, ",")
	if !found {
		return "", 0, errors.New("expected name,balance")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, errors.New("empty name")
	}
	balance, err := strconv.ParseInt(strings.TrimSpace(rawBalance), 10, 64)
	if err != nil {
		return "", 0, err
	}
	if balance < 0 {
		return "", 0, errors.New("negative balance")
	}
	return name, balance, nil
}
