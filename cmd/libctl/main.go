// Command libctl is the operator console for the library: it creates member
// accounts interactively and seeds the database with sample data for
// development.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/mail"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
	"gorm.io/gorm"

	"silentlibrary/internal/config"
	"silentlibrary/internal/db"
	"silentlibrary/internal/model"
	"silentlibrary/internal/repository"
)

func main() {
	root := &cobra.Command{
		Use:   "libctl",
		Short: "Operator console for the Silent Library server",
	}
	root.AddCommand(newCreateUserCmd())
	root.AddCommand(newListUsersCmd())
	root.AddCommand(newSeedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openDB() (*gorm.DB, error) {
	cfg := config.Load()
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return nil, err
	}
	if err := gormDB.SetupJoinTable(&model.Book{}, "Authors", &model.BookAuthor{}); err != nil {
		return nil, err
	}
	if err := gormDB.SetupJoinTable(&model.Book{}, "Genres", &model.BookGenre{}); err != nil {
		return nil, err
	}
	return gormDB, nil
}

func newCreateUserCmd() *cobra.Command {
	var staff bool

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a new registered user interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := openDB()
			if err != nil {
				return err
			}

			reader := bufio.NewReader(os.Stdin)

			var username string
			for {
				fmt.Print("Username: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				username = strings.TrimSpace(line)
				if username == "" {
					fmt.Fprintln(os.Stderr, "Username cannot be empty.")
					continue
				}
				var count int64
				gormDB.Model(&model.User{}).Where("username = ?", username).Count(&count)
				if count > 0 {
					fmt.Fprintf(os.Stderr, "Username %q already exists. Please choose another.\n", username)
					continue
				}
				break
			}

			var email string
			for {
				fmt.Print("Email address: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				email = strings.TrimSpace(line)
				if email == "" {
					fmt.Fprintln(os.Stderr, "Email cannot be empty.")
					continue
				}
				if _, err := mail.ParseAddress(email); err != nil {
					fmt.Fprintln(os.Stderr, "Invalid email address. Please enter a valid email.")
					continue
				}
				var count int64
				gormDB.Model(&model.User{}).Where("email = ?", email).Count(&count)
				if count > 0 {
					fmt.Fprintf(os.Stderr, "Email %q is already registered. Please use another email.\n", email)
					continue
				}
				break
			}

			var password string
			for {
				fmt.Print("Password: ")
				first, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Println()
				if err != nil {
					return err
				}
				if len(first) == 0 {
					fmt.Fprintln(os.Stderr, "Password cannot be empty.")
					continue
				}
				fmt.Print("Password (again): ")
				second, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Println()
				if err != nil {
					return err
				}
				if string(first) != string(second) {
					fmt.Fprintln(os.Stderr, "Passwords do not match. Please try again.")
					continue
				}
				password = string(first)
				break
			}

			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			user := &model.User{
				Username:     username,
				Email:        email,
				PasswordHash: string(hashed),
				IsStaff:      staff,
				IsActive:     true,
			}
			if err := gormDB.Create(user).Error; err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			fmt.Printf("Successfully created user %q with email %q.\n", username, email)
			return nil
		},
	}

	cmd.Flags().BoolVar(&staff, "staff", false, "grant the new user staff access")
	return cmd
}

func newListUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List all registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := openDB()
			if err != nil {
				return err
			}
			users, err := repository.NewUserRepository(gormDB).List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tSTAFF\tACTIVE")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%t\n", u.ID, u.Username, u.Email, u.IsStaff, u.IsActive)
			}
			return w.Flush()
		},
	}
}

var seedGenres = []string{
	"Fiction", "Non-Fiction", "Science Fiction", "Fantasy", "Mystery",
	"Thriller", "Romance", "Horror", "History", "Biography", "Poetry",
	"Self-Help", "Business", "Technology", "Travel",
}

var seedFirstNames = []string{
	"Alice", "Brian", "Carla", "Derek", "Elena", "Farid", "Grace", "Hugo",
	"Ingrid", "Jamal", "Keiko", "Liam", "Maya", "Noah", "Olga", "Pedro",
	"Quinn", "Rosa", "Samir", "Tessa",
}

var seedLastNames = []string{
	"Anderson", "Bauer", "Castillo", "Dupont", "Eriksen", "Fischer",
	"Gonzalez", "Haddad", "Ivanova", "Jensen", "Kowalski", "Larsen",
	"Moreau", "Nakamura", "Okafor", "Petrov", "Quiroga", "Rossi",
	"Schmidt", "Tanaka",
}

var seedTitleLeads = []string{
	"The Silent", "A Distant", "Beyond the", "Shadows of", "The Last",
	"Whispers of", "Children of", "The Glass", "Echoes from", "The Iron",
}

var seedTitleTails = []string{
	"Harbor", "Mountain", "Library", "Garden", "River", "Empire",
	"Horizon", "Winter", "Machine", "Voyage",
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with sample data for development",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := openDB()
			if err != nil {
				return err
			}
			if err := gormDB.AutoMigrate(
				&model.User{},
				&model.Author{},
				&model.Genre{},
				&model.Book{},
				&model.Loan{},
				&model.Fine{},
				&model.Review{},
				&model.Notification{},
			); err != nil {
				return fmt.Errorf("auto-migrate: %w", err)
			}
			return seed(gormDB, rand.New(rand.NewSource(time.Now().UnixNano())))
		},
	}
}

// seed clears everything except staff accounts and repopulates the database.
// Deletes run leaf-first so foreign keys never dangle.
func seed(gormDB *gorm.DB, rng *rand.Rand) error {
	log.Println("Clearing existing data (excluding staff accounts)...")
	for _, stmt := range []string{
		"DELETE FROM reviews",
		"DELETE FROM notifications",
		"DELETE FROM fines",
		"DELETE FROM loans",
		"DELETE FROM books_genres",
		"DELETE FROM books_authors",
		"DELETE FROM genres",
		"DELETE FROM books",
		"DELETE FROM authors",
		"DELETE FROM users WHERE is_staff = false",
	} {
		if err := gormDB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("clear data: %w", err)
		}
	}

	log.Println("Creating sample users...")
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	var users []model.User
	for i := 0; i < 10; i++ {
		first := seedFirstNames[rng.Intn(len(seedFirstNames))]
		last := seedLastNames[rng.Intn(len(seedLastNames))]
		dob := time.Now().AddDate(-18-rng.Intn(52), 0, -rng.Intn(365))
		users = append(users, model.User{
			Username:     fmt.Sprintf("%s.%s%d", strings.ToLower(first), strings.ToLower(last), i),
			Email:        fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			PasswordHash: string(hashed),
			FirstName:    first,
			LastName:     last,
			DateOfBirth:  &dob,
			IsActive:     true,
		})
	}
	if err := gormDB.Create(&users).Error; err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	log.Println("Creating sample authors...")
	ctx := context.Background()
	authorRepo := repository.NewAuthorRepository(gormDB)
	var authors []model.Author
	for i := 0; i < 20; i++ {
		author := model.Author{
			FirstName: seedFirstNames[rng.Intn(len(seedFirstNames))],
			LastName:  seedLastNames[rng.Intn(len(seedLastNames))],
		}
		if err := authorRepo.Create(ctx, &author); err != nil {
			return fmt.Errorf("seed author: %w", err)
		}
		authors = append(authors, author)
	}

	log.Println("Creating sample genres...")
	genreRepo := repository.NewGenreRepository(gormDB)
	var genres []model.Genre
	for _, name := range seedGenres {
		genre, err := genreRepo.FindOrCreate(ctx, name)
		if err != nil {
			return fmt.Errorf("seed genre: %w", err)
		}
		genres = append(genres, *genre)
	}

	log.Println("Creating sample books...")
	var books []model.Book
	for i := 0; i < 50; i++ {
		total := uint(1 + rng.Intn(10))
		book := model.Book{
			Title:           fmt.Sprintf("%s %s", seedTitleLeads[rng.Intn(len(seedTitleLeads))], seedTitleTails[rng.Intn(len(seedTitleTails))]),
			ISBN:            fmt.Sprintf("978%010d", rng.Int63n(1e10)),
			TotalCopies:     total,
			AvailableCopies: uint(rng.Intn(int(total) + 1)),
			Authors:         pickAuthors(rng, authors, 1+rng.Intn(2)),
			Genres:          pickGenres(rng, genres, 1+rng.Intn(3)),
		}
		if err := gormDB.Create(&book).Error; err != nil {
			return fmt.Errorf("seed book: %w", err)
		}
		books = append(books, book)
	}

	log.Println("Creating sample loans...")
	statuses := []model.LoanStatus{model.LoanStatusBorrowed, model.LoanStatusReturned, model.LoanStatusOverdue}
	var loans []model.Loan
	for i := 0; i < 100; i++ {
		user := users[rng.Intn(len(users))]
		book := &books[rng.Intn(len(books))]
		status := statuses[rng.Intn(len(statuses))]

		switch status {
		case model.LoanStatusBorrowed, model.LoanStatusOverdue:
			if book.AvailableCopies == 0 {
				continue
			}
			due := time.Now().AddDate(0, 0, rng.Intn(30)+1)
			if status == model.LoanStatusOverdue {
				due = time.Now().AddDate(0, 0, -(rng.Intn(30) + 1))
			}
			loan := model.Loan{UserID: user.ID, BookID: book.ID, DueDate: due, Status: status}
			if err := gormDB.Create(&loan).Error; err != nil {
				return fmt.Errorf("seed loan: %w", err)
			}
			book.AvailableCopies--
			if err := gormDB.Model(&model.Book{}).Where("id = ?", book.ID).
				Update("available_copies", book.AvailableCopies).Error; err != nil {
				return fmt.Errorf("seed loan copies: %w", err)
			}
			loans = append(loans, loan)
		case model.LoanStatusReturned:
			due := time.Now().AddDate(0, 0, -(rng.Intn(60) + 1))
			returned := time.Now().AddDate(0, 0, -(rng.Intn(30) + 1))
			loan := model.Loan{UserID: user.ID, BookID: book.ID, DueDate: due, ReturnDate: &returned, Status: status}
			if err := gormDB.Create(&loan).Error; err != nil {
				return fmt.Errorf("seed loan: %w", err)
			}
			loans = append(loans, loan)
		}
	}

	log.Println("Creating sample fines for overdue loans...")
	fineStatuses := []model.FineStatus{model.FineStatusPending, model.FineStatusPaid, model.FineStatusWaived}
	for _, loan := range loans {
		if loan.Status != model.LoanStatusOverdue {
			continue
		}
		fine := model.Fine{
			LoanID: loan.ID,
			Amount: decimal.NewFromFloat(1 + rng.Float64()*19).Round(2),
			Status: fineStatuses[rng.Intn(len(fineStatuses))],
		}
		if err := gormDB.Create(&fine).Error; err != nil {
			return fmt.Errorf("seed fine: %w", err)
		}
	}

	log.Println("Creating sample notifications...")
	for _, user := range users {
		for i := 0; i < rng.Intn(6); i++ {
			n := model.Notification{
				UserID:  user.ID,
				Message: fmt.Sprintf("Reminder %d: your reserved title is waiting at the front desk.", i+1),
			}
			if err := gormDB.Create(&n).Error; err != nil {
				return fmt.Errorf("seed notification: %w", err)
			}
		}
	}

	log.Println("Creating sample reviews...")
	reviewTexts := []string{
		"Could not put it down, finished it in two evenings.",
		"A slow start but the second half makes up for it.",
		"Beautifully written, though the ending felt rushed.",
		"Not my usual genre but I enjoyed it a lot.",
		"The characters stayed with me long after the last page.",
	}
	for _, book := range books {
		for i := 0; i < rng.Intn(4); i++ {
			r := model.Review{
				UserID: users[rng.Intn(len(users))].ID,
				BookID: book.ID,
				Rating: 1 + rng.Intn(5),
				Text:   reviewTexts[rng.Intn(len(reviewTexts))],
			}
			if err := gormDB.Create(&r).Error; err != nil {
				return fmt.Errorf("seed review: %w", err)
			}
		}
	}

	log.Println("Successfully seeded all data.")
	return nil
}

func pickAuthors(rng *rand.Rand, pool []model.Author, n int) []model.Author {
	idx := rng.Perm(len(pool))
	out := make([]model.Author, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}

func pickGenres(rng *rand.Rand, pool []model.Genre, n int) []model.Genre {
	idx := rng.Perm(len(pool))
	out := make([]model.Genre, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}
