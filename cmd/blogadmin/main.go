// Command blogadmin manages blog accounts directly in the database. It is the
// only way to create administrators.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"agora/auth"
	"agora/config"
	"agora/domain"
	"agora/logger"
	"agora/repository/sqlstore"
	"agora/sanitize"
	"agora/service"
)

const usage = `usage: blogadmin [--config file] [--db-driver sqlite|postgres] [--db-url dsn] <command> [flags]

commands:
  adduser  --username name --email addr [--password pw] [--admin]
  passwd   --username name [--password pw]
  deluser  --username name
  hash     [--password pw] [--iterations n]

A missing --password is read from the first line of standard input.
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "blogadmin:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	global := pflag.NewFlagSet("blogadmin", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(io.Discard)
	cfgFile := global.String("config", os.Getenv("CONFIG_FILE"), "YAML configuration file")
	driver := global.String("db-driver", "", "database driver (default from configuration)")
	dsn := global.String("db-url", "", "database URL (default from configuration)")
	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}
	if global.NArg() == 0 {
		return errors.New(usage)
	}
	command, rest := global.Arg(0), global.Args()[1:]

	if command == "hash" {
		return hash(rest, stdin, stdout)
	}

	db, err := databaseConfig(*cfgFile, *driver, *dsn)
	if err != nil {
		return err
	}
	store, err := sqlstore.Open(db.Driver, db.URL)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating schema: %w", err)
	}

	log := logger.New(config.DevEnv, os.Stderr).Level(zerolog.WarnLevel)
	blog := service.New(store.Repositories(), auth.NewHasher(0), sanitize.New(), log)

	switch command {
	case "adduser":
		return addUser(ctx, blog, rest, stdin, stdout)
	case "passwd":
		return passwd(ctx, blog, rest, stdin, stdout)
	case "deluser":
		return delUser(ctx, blog, rest, stdout)
	}
	return fmt.Errorf("unknown command %q\n%s", command, usage)
}

func databaseConfig(path, driver, dsn string) (config.DB, error) {
	if dsn != "" {
		if driver == "" {
			driver = sqlstore.DriverSQLite
		}
		return config.DB{Driver: driver, URL: dsn}, nil
	}
	db, err := config.LoadDB(path)
	if err != nil {
		return config.DB{}, err
	}
	if driver != "" {
		db.Driver = driver
	}
	return db, nil
}

func addUser(ctx context.Context, blog *service.Blog, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("adduser", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	username := fs.String("username", "", "account name")
	email := fs.String("email", "", "e-mail address")
	password := fs.String("password", "", "password")
	admin := fs.Bool("admin", false, "grant administrator access")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" {
		return errors.New("adduser needs --username and --email")
	}
	pw, err := passwordFrom(*password, stdin)
	if err != nil {
		return err
	}

	access := domain.AccessUser
	if *admin {
		access = domain.AccessAdmin
	}
	u, err := blog.CreateAccount(ctx, service.Registration{Username: *username, Email: *email, Password: pw}, access)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "created %s %s (%s)\n", u.Access, u.Username, u.ID)
	return nil
}

func passwd(ctx context.Context, blog *service.Blog, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("passwd", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	username := fs.String("username", "", "account name")
	password := fs.String("password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("passwd needs --username")
	}
	pw, err := passwordFrom(*password, stdin)
	if err != nil {
		return err
	}
	if err := blog.ChangePassword(ctx, *username, pw); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "password of %s changed\n", *username)
	return nil
}

func delUser(ctx context.Context, blog *service.Blog, args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("deluser", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	username := fs.String("username", "", "account name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("deluser needs --username")
	}
	if err := blog.DeleteAccount(ctx, *username); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "deleted %s with their posts and comments\n", *username)
	return nil
}

func hash(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("hash", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	password := fs.String("password", "", "password to hash")
	iterations := fs.Int("iterations", auth.DefaultIterations, "PBKDF2 iterations")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pw, err := passwordFrom(*password, stdin)
	if err != nil {
		return err
	}
	digest, err := auth.NewHasher(*iterations).Hash(pw)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, digest)
	return nil
}

func passwordFrom(flag string, stdin io.Reader) (string, error) {
	if flag != "" {
		return flag, nil
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}
