// Command inspect dumps the BadgerDB read model behind the live server:
// the user directory, channels, memberships and pending invitations.
package main

import (
	"chat-live/domain"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

func main() {
	defaultPath := os.Getenv("BADGER_FILEPATH")
	if defaultPath == "" {
		defaultPath = database.DefaultPath
	}
	dbPath := flag.String("db", defaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "", "Prefix to scan (user:, channel:, member:, member_of:, invitation:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Detail"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(v []byte) error {
				kind, detail := describe(key, v)
				table.Append([]string{key, kind, detail})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

// describe renders a value according to the key family it belongs to.
func describe(key string, value []byte) (string, string) {
	kind, _, _ := strings.Cut(key, ":")
	switch kind {
	case "user":
		var identity domain.Identity
		if err := json.Unmarshal(value, &identity); err != nil {
			return "USER", "corrupted: " + err.Error()
		}
		return "USER", identity.Name
	case "channel":
		var channel domain.Channel
		if err := json.Unmarshal(value, &channel); err != nil {
			return "CHANNEL", "corrupted: " + err.Error()
		}
		return "CHANNEL", channel.Name
	case "member", "member_of":
		return "MEMBERSHIP", string(value)
	case "invitation":
		var invitation domain.Invitation
		if err := json.Unmarshal(value, &invitation); err != nil {
			return "INVITATION", "corrupted: " + err.Error()
		}
		return "INVITATION", fmt.Sprintf("%s -> %s in %s", invitation.Sender.ID, invitation.Receiver.ID, invitation.Channel.ID)
	default:
		return "RAW", fmt.Sprintf("Size: %d bytes", len(value))
	}
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
