// Command candidates lists stored candidate snapshots with sensitive fields
// decrypted, for operator review outside the running service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/talentscout/screener/internal/config"
	"github.com/talentscout/screener/internal/fieldcipher"
	"github.com/talentscout/screener/internal/records"
	"github.com/talentscout/screener/internal/secrets"
)

func main() {
	asJSON := flag.Bool("json", false, "emit one JSON object per row instead of a table")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	key, err := secrets.Load(cfg.EncryptionKeyPath)
	if err != nil {
		log.Fatalf("encryption key load failed: %v", err)
	}
	cipher, err := fieldcipher.New(key)
	if err != nil {
		log.Fatalf("field cipher init failed: %v", err)
	}

	ctx := context.Background()
	store, err := records.NewStore(ctx, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("record store init failed: %v", err)
	}
	defer store.Close()

	rows, err := store.List(ctx)
	if err != nil {
		log.Fatalf("listing candidates failed: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		for _, row := range rows {
			_ = enc.Encode(map[string]any{
				"id":         row.ID,
				"created_at": row.CreatedAt,
				"data":       decryptRow(cipher, row.Data),
			})
		}
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tFIELDS")
	for _, row := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\n", row.ID, row.CreatedAt.Format("2006-01-02 15:04:05"), formatFields(decryptRow(cipher, row.Data)))
	}
	_ = w.Flush()
}

func decryptRow(cipher *fieldcipher.Cipher, data map[string]string) map[string]string {
	out, err := cipher.DecryptForDisplay(data, fieldcipher.SensitiveFields...)
	if err != nil {
		log.Printf("row partially unreadable: %v", err)
	}
	return out
}

func formatFields(data map[string]string) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+data[k])
	}
	return strings.Join(parts, " ")
}
