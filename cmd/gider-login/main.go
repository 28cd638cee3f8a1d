// gider-login exchanges credentials for a bearer token and persists it in
// the local token store, so cmd/gider and cmd/gider-report can run without
// prompting. Run it again whenever the session expires.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gider/internal/api"
	"gider/internal/cli"
	"gider/internal/log"
	"gider/internal/token"
	"gider/internal/tokenstore"
)

func main() {
	var (
		register = flag.Bool("register", false, "create an account before signing in")
		clear    = flag.Bool("clear", false, "forget the stored session and exit")
	)
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentToken)
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.OpenTokenStore(logger, cfg.TokenDBPath)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *clear {
		if err := store.Clear(ctx); err != nil {
			logger.Error("Failed to clear session", log.FieldError, err)
			os.Exit(1)
		}
		fmt.Println("Session cleared.")
		return
	}

	client, err := api.New(api.Config{
		BaseURL:               cfg.APIBaseURL,
		AuthorizeCategoryList: cfg.AuthorizeCategoryList,
	}, store)
	if err != nil {
		logger.Error("Failed to initialize API client", log.FieldError, err)
		os.Exit(1)
	}

	in := bufio.NewReader(os.Stdin)

	if *register {
		firstName := prompt(in, "First name: ")
		lastName := prompt(in, "Last name: ")
		email := prompt(in, "Email: ")
		password := prompt(in, "Password: ")

		err := client.Register(ctx, api.RegisterParams{
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
			Password:  password,
		})
		if err != nil {
			logger.Error("Registration failed", log.FieldError, err)
			os.Exit(1)
		}
		fmt.Println("Account created.")

		raw, err := client.Login(ctx, email, password)
		if err != nil {
			logger.Error("Login failed", log.FieldError, err)
			os.Exit(1)
		}
		saveToken(ctx, logger, store, raw)
		return
	}

	email := prompt(in, "Email: ")
	password := prompt(in, "Password: ")

	raw, err := client.Login(ctx, email, password)
	if err != nil {
		logger.Error("Login failed", log.FieldError, err)
		os.Exit(1)
	}
	saveToken(ctx, logger, store, raw)
}

func saveToken(ctx context.Context, logger *log.Logger, store *tokenstore.Store, raw string) {
	claims, err := token.Decode(raw)
	if err != nil {
		logger.Error("Server returned an unreadable token", log.FieldError, err)
		os.Exit(1)
	}
	userID, err := claims.UserID()
	if err != nil {
		logger.Error("Token carries no user identity", log.FieldError, err)
		os.Exit(1)
	}

	if err := store.Set(ctx, raw); err != nil {
		logger.Error("Failed to persist session", log.FieldError, err)
		os.Exit(1)
	}

	name := claims.DisplayName()
	if name == "" {
		name = userID
	}
	fmt.Printf("Signed in as %s.\n", name)
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
