// cmd/seeduser creates or updates an operator.
// Usage: seeduser -username admin -role admin   (password read from stdin)
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/config"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/infra"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/model"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/repository"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	username := flag.String("username", "", "username to create or update")
	role := flag.String("role", string(model.RoleSales), "goods_receiving | sales | admin")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		infra.SetupLogger("development", "info")
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.SetupLogger(cfg.Env, cfg.LogLevel)

	if *username == "" {
		log.Fatal().Msg("-username is required")
	}

	fmt.Fprint(os.Stderr, "password: ")
	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && password == "" {
		log.Fatal().Err(err).Msg("failed to read password")
	}
	password = strings.TrimRight(password, "\r\n")

	db, err := infra.NewDatabase(cfg.DatabaseURL, infra.DatabaseOptions{MaxOpenConns: 1})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	authSvc, err := service.NewAuthService(repository.NewUserRepository(db), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init auth")
	}
	user, err := authSvc.EnsureUser(context.Background(), *username, password, model.Role(*role))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to save user")
	}
	fmt.Printf("user %q saved with role %s\n", user.Username, user.Role)
}
