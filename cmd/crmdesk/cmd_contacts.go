package main

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"crmdesk/internal/session"
	"crmdesk/internal/vtiger"
)

var contactDetails bool

// contactsCmd prints the contact list without entering the console.
var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List contacts",
	Long: `Prints the contact list for scripting or a quick look. With
--details each contact's full record is fetched concurrently to include
its field and potential counts.`,
	RunE: runContacts,
}

// resumeClient builds a client carrying the stored session.
func resumeClient() (*vtiger.Client, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	sess, err := store.Load(cfg.API.BaseURL)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, fmt.Errorf("not logged in, run 'crmdesk login' first")
		}
		return nil, err
	}
	client.SetSession(sess.Token)
	return client, nil
}

func runContacts(cmd *cobra.Command, args []string) error {
	client, err := resumeClient()
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	contacts, err := client.Contacts(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if !contactDetails {
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tASSIGNED TO")
		for _, c := range contacts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.DisplayName(), c.Email, c.Phone(), c.AssignedTo)
		}
		return w.Flush()
	}

	// Hydrate every record with bounded concurrency so a large list
	// does not open one connection per contact.
	type detail struct {
		fields     int
		potentials int
	}
	details := make(map[string]detail, len(contacts))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(4)
	for _, c := range contacts {
		g.Go(func() error {
			rec, err := client.FetchRecord(ctx, c.ID)
			if err != nil {
				return fmt.Errorf("record %s: %w", c.ID, err)
			}
			mu.Lock()
			details[c.ID] = detail{fields: len(rec.Fields), potentials: len(rec.Potentials)}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tASSIGNED TO\tFIELDS\tPOTENTIALS")
	for _, c := range contacts {
		d := details[c.ID]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			c.ID, c.DisplayName(), c.Email, c.Phone(), c.AssignedTo, d.fields, d.potentials)
	}
	return w.Flush()
}
