// Command fx_cli is a terminal client for the FX backend API.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/SscSPs/fx_backend/internal/utils"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

const (
	defaultAPIURL = "http://localhost:8080"
	tokenFileName = ".fx_cli_token"
)

var (
	errorOut = color.New(color.FgRed, color.Bold)
	success  = color.New(color.FgGreen)
	header   = color.New(color.FgCyan, color.Bold)
	warning  = color.New(color.FgYellow)
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fx_cli <command> [arguments]")
	fmt.Fprintln(w, "Commands: rates, login [username], convert <from> <to> <amount>, history [limit] [nextToken], logout")
	fmt.Fprintln(w, "The API address is read from FX_API_URL (default "+defaultAPIURL+").")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stdout)
		return
	}

	apiURL := os.Getenv("FX_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	tokenPath, err := tokenFilePath()
	if err != nil {
		errorOut.Fprintln(os.Stderr, "Cannot locate home directory:", err)
		os.Exit(1)
	}

	client := newAPIClient(apiURL, readToken(tokenPath))
	ctx := context.Background()

	switch cmd := os.Args[1]; cmd {
	case "rates":
		err = runRates(ctx, client)
	case "login":
		err = runLogin(ctx, client, tokenPath, os.Args[2:])
	case "logout":
		err = os.Remove(tokenPath)
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
		if err == nil {
			success.Println("Logged out.")
		}
	case "convert":
		err = runConvert(ctx, client, os.Args[2:])
	case "history":
		err = runHistory(ctx, client, os.Args[2:])
	default:
		errorOut.Fprintln(os.Stderr, "Unknown command:", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}

	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			errorOut.Fprintln(os.Stderr, "Not logged in or session expired. Run: fx_cli login")
			os.Exit(1)
		}
		errorOut.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runRates(ctx context.Context, client *apiClient) error {
	rates, err := client.Rates(ctx)
	if err != nil {
		return err
	}

	header.Printf("Rates per 1 %s (as of %s)\n", rates.Base, rates.Timestamp.Local().Format("2006-01-02 15:04:05"))
	if rates.Stale {
		warning.Println("The rate provider is unavailable, these rates may be outdated.")
	}
	codes := make([]string, 0, len(rates.Rates))
	for code := range rates.Rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Printf("  %s  %s\n", code, utils.FormatWithPrecision(rates.Rates[code], 6))
	}
	return nil
}

func runLogin(ctx context.Context, client *apiClient, tokenPath string, args []string) error {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		fmt.Print("Username: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	resp, err := client.Login(ctx, username, string(password))
	if err != nil {
		return err
	}
	if err := os.WriteFile(tokenPath, []byte(resp.Token), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	success.Printf("Logged in as %s. Session valid until %s.\n", username, resp.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func runConvert(ctx context.Context, client *apiClient, args []string) error {
	if len(args) < 3 {
		return errors.New("usage: convert <from> <to> <amount>")
	}
	amount, err := decimal.NewFromString(args[2])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[2], err)
	}

	resp, err := client.Convert(ctx, strings.ToUpper(args[0]), strings.ToUpper(args[1]), amount)
	if err != nil {
		return err
	}
	success.Printf("%s %s = %s %s\n", resp.Amount.String(), resp.FromCurrency,
		utils.FormatWithCurrencyPrecision(resp.ConvertedAmount, resp.ToCurrency), resp.ToCurrency)
	fmt.Printf("  rate %s, transaction %s\n", resp.ExchangeRate.String(), resp.ID)
	return nil
}

func runHistory(ctx context.Context, client *apiClient, args []string) error {
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid limit %q: %w", args[0], err)
		}
		limit = n
	}
	var nextToken string
	if len(args) > 1 {
		nextToken = args[1]
	}

	page, err := client.History(ctx, limit, nextToken)
	if err != nil {
		return err
	}
	if len(page.Transactions) == 0 {
		fmt.Println("No transactions.")
		return nil
	}

	header.Printf("%-20s %-36s %14s %-4s %14s %-4s\n", "TIME", "ID", "AMOUNT", "FROM", "CONVERTED", "TO")
	for _, txn := range page.Transactions {
		fmt.Printf("%-20s %-36s %14s %-4s %14s %-4s\n",
			txn.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			txn.TransactionID,
			txn.Amount.String(), txn.FromCurrency,
			utils.FormatWithCurrencyPrecision(txn.ConvertedAmount, txn.ToCurrency), txn.ToCurrency,
		)
	}
	if page.NextToken != nil {
		fmt.Printf("More: fx_cli history %d %s\n", len(page.Transactions), *page.NextToken)
	}
	return nil
}

func tokenFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, tokenFileName), nil
}

func readToken(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
