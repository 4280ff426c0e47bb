package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
)

// WriteCustomers prints the customer directory, dispatching based on the output format configured.
func WriteCustomers(customers []string, cfg *contract.Config) error {
	if customers == nil {
		customers = []string{}
	}
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, customers)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"customer_name"}, func(csvWriter *csv.Writer) error {
				for _, c := range customers {
					if err := csvWriter.Write([]string{c}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			for _, c := range customers {
				if _, err := fmt.Fprintln(w, c); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintf(w, "%d customers\n", len(customers))
			return err
		}, "Wrote text")
	}
}
