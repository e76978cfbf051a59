// Command seed populates a fresh Feedline database with a demo user and a
// handful of posts so the feed has content to show.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/dmitrijs2005/feedline/internal/flagx"
	"github.com/dmitrijs2005/feedline/internal/server/auth"
	"github.com/dmitrijs2005/feedline/internal/server/config"
	"github.com/dmitrijs2005/feedline/internal/server/feed"
	"github.com/dmitrijs2005/feedline/internal/server/likes"
	"github.com/dmitrijs2005/feedline/internal/server/shared/db"
	"github.com/dmitrijs2005/feedline/internal/server/users"
)

var demoPosts = []feed.NewPost{
	{Title: "Welcome to Feedline", Text: "First post on a fresh instance. Say hello!", Tags: []string{"meta"}},
	{Title: "Markets this morning", Text: "Futures flat ahead of the open, energy leading.", Tags: []string{"markets"}},
	{Title: "Reading list", Text: "Three longreads on payment infrastructure worth your weekend.", Tags: []string{"reading", "fintech"}},
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseSeedFlags reads only the seeder's own flags, leaving the rest of argv
// for the config layer.
func parseSeedFlags() (login string, password string) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-l", "-x"})

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.StringVar(&login, "l", "demo1", "login for the seeded user")
	fs.StringVar(&password, "x", "", "password for the seeded user (prompted when empty)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	return login, password
}

func main() {
	login, password := parseSeedFlags()

	cfg := config.LoadConfig()

	ctx := context.Background()

	if password == "" {
		var err error
		password, err = readPassword(fmt.Sprintf("Password for %s: ", login))
		if err != nil {
			log.Fatalf("password read error: %v", err)
		}
	}

	rm, err := db.NewPostgresRepositoryManager(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer func() {
		_ = rm.Conn().Close()
	}()

	tokens := auth.NewTokenService(users.CredentialSource{Repo: rm.Users()}, cfg)
	userService := users.NewService(rm.Users(), auth.NewPBKDF2Hasher(), tokens)
	ledger := likes.NewLedger(rm.Likes())
	aggregator := feed.NewAggregator(rm.Posts(), rm.Images(), ledger)

	token, err := userService.Register(ctx, login, password)
	if err != nil {
		log.Fatalf("register %s: %v", login, err)
	}
	log.Printf("registered user %s", login)

	user, err := rm.Users().GetByLogin(ctx, login)
	if err != nil {
		log.Fatalf("lookup %s: %v", login, err)
	}

	for _, p := range demoPosts {
		postID, err := aggregator.CreatePost(ctx, &p, user.ID)
		if err != nil {
			log.Fatalf("post %q: %v", p.Title, err)
		}
		if _, err := ledger.Like(ctx, user.ID, postID); err != nil {
			log.Fatalf("like post %d: %v", postID, err)
		}
		log.Printf("created post %d: %s", postID, p.Title)
	}

	fmt.Println("\nSeed complete. Bearer token for the demo user:")
	fmt.Println(token)
}
