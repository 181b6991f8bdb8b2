package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nbelhadj/pdf2ticket/internal/app"
	"github.com/nbelhadj/pdf2ticket/internal/backend/extraction"
	"github.com/nbelhadj/pdf2ticket/internal/backend/ticket"
	"github.com/nbelhadj/pdf2ticket/internal/credential"
	"github.com/nbelhadj/pdf2ticket/internal/history"
	"github.com/nbelhadj/pdf2ticket/internal/model"
	"github.com/nbelhadj/pdf2ticket/internal/normalize"
	"github.com/nbelhadj/pdf2ticket/internal/wizard"
)

func main() {
	var err error
	if len(os.Args) > 1 {
		err = runCommand(os.Args[1:])
	} else {
		err = run()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdf2ticket: %v\n", err)
		os.Exit(1)
	}
}

const usage = `usage:
  pdf2ticket                                        start the wizard
  pdf2ticket set-token <extraction|ticket> <token>  store a backend token
  pdf2ticket delete-token <extraction|ticket>       remove a stored token`

// runCommand handles the keyring maintenance subcommands. The wizard
// itself takes no arguments.
func runCommand(args []string) error {
	switch args[0] {
	case "set-token":
		if len(args) != 3 {
			return errors.New("set-token takes a backend name and a token\n\n" + usage)
		}
		key, err := credential.KeyFor(args[1])
		if err != nil {
			return err
		}
		if err := credential.Set(key, args[2]); err != nil {
			return err
		}
		fmt.Printf("stored %s token in the system keyring\n", args[1])
		return nil

	case "delete-token":
		if len(args) != 2 {
			return errors.New("delete-token takes a backend name\n\n" + usage)
		}
		key, err := credential.KeyFor(args[1])
		if err != nil {
			return err
		}
		if err := credential.Delete(key); err != nil {
			return err
		}
		fmt.Printf("removed %s token from the system keyring\n", args[1])
		return nil

	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return err
	}

	// Missing backend URLs are fatal before any UI starts: there is no
	// point entering the wizard against undefined endpoints.
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf(
			"%w\n\nset them in %s or via PDF2TICKET_EXTRACTION_URL / PDF2TICKET_TICKET_URL",
			err, model.DefaultConfigPath(),
		)
	}

	extractor := extraction.NewClient(
		cfg.Extraction.BaseURL,
		credential.Token("PDF2TICKET_EXTRACTION_TOKEN", credential.ExtractionTokenKey),
	)
	submitter := ticket.NewClient(
		cfg.Ticket.BaseURL,
		credential.Token("PDF2TICKET_TICKET_TOKEN", credential.TicketTokenKey),
	)

	wiz := wizard.New(extractor, submitter, normalize.New())

	// History is best-effort: a broken database disables recording but
	// never blocks ticket creation.
	var store history.Store
	if s, err := history.NewSQLiteStore(cfg.History.Path); err == nil {
		store = s
		defer s.Close()
	} else {
		fmt.Fprintf(os.Stderr, "pdf2ticket: submission history disabled: %v\n", err)
	}

	p := tea.NewProgram(
		app.New(wiz, store, cfg.Prompt.System),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}
