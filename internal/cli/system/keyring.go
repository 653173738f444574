package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/dailyfocus/internal/cli"
	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/keyring"
	"github.com/julianstephens/dailyfocus/internal/storage/postgres"
)

// KeyringCmd manages the postgres connection string used by "store: keyring".
type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Status KeyringStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
}

// KeyringSetCmd stores database connection credentials in the OS keyring
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !cli.IsPostgres(cmd.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	// Validate connection string for security
	_, err := postgres.ValidateConnString(cmd.ConnectionString)
	if err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			// Warn about embedded credentials but allow storage in keyring (it's encrypted)
			fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
			fmt.Println("   It will be stored as-is in the encrypted OS keyring, which is a secure place for credentials.")
			fmt.Println("   If you prefer to keep passwords separate from connection strings, consider using .pgpass or environment variables instead.")
		} else {
			// Other validation errors should fail the operation
			return fmt.Errorf("invalid connection string: %w", err)
		}
	}

	// Store in keyring
	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Println("✓ Connection string stored successfully in OS keyring")
	fmt.Printf("  Set \"store: %s\" in the config file to use it\n", constants.StoreKeyring)
	return nil
}

// KeyringGetCmd retrieves database connection credentials from the OS keyring
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'dailyfocus keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	fmt.Println("Connection string retrieved from keyring:")
	// Mask the password in the output for security
	maskedConnStr := maskPassword(connStr)
	fmt.Println(maskedConnStr)
	return nil
}

// KeyringDeleteCmd removes database connection credentials from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	err := keyring.DeleteConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Println("✓ Connection string deleted from OS keyring")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if keyring.IsAvailable() {
		fmt.Println("✓ OS keyring is available")

		// Check if credentials are stored
		_, err := keyring.GetConnectionString()
		if err == nil {
			fmt.Println("✓ Connection string is stored in keyring")
		} else if errors.Is(err, keyring.ErrNotFound) {
			fmt.Println("ℹ No connection string stored in keyring")
		}
	} else {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	return nil
}

// maskPassword hides the password of a URL or key=value connection string.
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		return maskURLPassword(connStr)
	}
	if strings.Contains(connStr, "password=") {
		return maskDSNPassword(connStr)
	}
	return connStr
}

// maskURLPassword splits on the last @ so passwords containing @ still mask.
func maskURLPassword(connStr string) string {
	scheme, rest, ok := strings.Cut(connStr, "://")
	if !ok {
		return connStr
	}
	at := strings.LastIndex(rest, "@")
	if at == -1 {
		return connStr
	}
	user, _, hasPassword := strings.Cut(rest[:at], ":")
	if !hasPassword {
		return connStr
	}
	return scheme + "://" + user + ":****" + rest[at:]
}

func maskDSNPassword(connStr string) string {
	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}
