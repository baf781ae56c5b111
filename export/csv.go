/*
Package export renders the ledger onto the CSV export surface.

PURPOSE:
  Produces the single UTF-8 file handed to spreadsheets after an
  event: one line per sold item, annotated with the customer survey
  fields captured at commit time.

FORMAT:
  Header line, then one data row per sale item. 14 columns:
  Event, DateTime, ProductName, Quantity, UnitPrice, Amount, AgeGroup,
  Gender, Channel, Exhibitor, Acquaintance, Cashless, Reserved, Notes.
  DateTime is "2006-01-02 15:04:05", booleans render as 1/0, notes
  have embedded newlines folded to single spaces. UnitPrice and Amount
  are recomputed from the live catalog on every write, never read back
  from stored totals.

STRATEGIES:
  AppendTransaction: incremental, writes the header first when the
                     file does not exist yet
  RewriteAll:        full regeneration, used after ledger edits and
                     deletes so already-written rows reflect the edit

QUOTING:
  Every data field is double-quoted with internal quotes doubled, even
  where quoting would not be required. encoding/csv only quotes when
  it must, so rows are assembled by hand; the output still parses with
  any standard CSV reader.

RESOLUTION:
  Product names and prices come from the catalog at write time, so a
  product edit retroactively changes what a rewrite produces. Sale
  items whose product id no longer resolves are omitted.
*/
package export

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/booth-ledger/pos"
)

// Header is the fixed first line of the export file.
const Header = "Event,DateTime,ProductName,Quantity,UnitPrice,Amount,AgeGroup,Gender,Channel,Exhibitor,Acquaintance,Cashless,Reserved,Notes"

const dateTimeLayout = "2006-01-02 15:04:05"

// CSV writes the ledger to a single file at a fixed path.
type CSV struct {
	path    string
	catalog *pos.Catalog
	events  *pos.Events
}

var _ pos.Exporter = (*CSV)(nil)

func NewCSV(path string, catalog *pos.Catalog, events *pos.Events) *CSV {
	return &CSV{path: path, catalog: catalog, events: events}
}

// Path returns the location of the export file.
func (c *CSV) Path() string {
	return c.path
}

// AppendTransaction adds one transaction's rows to the end of the
// file, writing the header first when the file does not exist yet.
func (c *CSV) AppendTransaction(tx pos.Transaction) error {
	var b strings.Builder
	if _, err := os.Stat(c.path); os.IsNotExist(err) {
		b.WriteString(Header)
		b.WriteByte('\n')
	}
	c.writeRows(&b, tx)

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open export file: %w", err)
	}
	_, werr := f.WriteString(b.String())
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("failed to append export rows: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("failed to close export file: %w", cerr)
	}
	return nil
}

// RewriteAll regenerates the whole file: the header plus one row per
// resolving sale item across all transactions, in ledger order. An
// empty ledger leaves a header-only file.
func (c *CSV) RewriteAll(txs []pos.Transaction) error {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, tx := range txs {
		c.writeRows(&b, tx)
	}
	if err := os.WriteFile(c.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to rewrite export file: %w", err)
	}
	return nil
}

// writeRows appends one CSV line per sale item that still resolves.
func (c *CSV) writeRows(b *strings.Builder, tx pos.Transaction) {
	eventName := ""
	if ev, ok := c.events.Get(tx.EventID); ok {
		eventName = ev.Name
	}
	for _, item := range tx.Items {
		p, ok := c.catalog.Get(item.ProductID)
		if !ok {
			continue
		}
		amount := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fields := []string{
			eventName,
			tx.Time.Format(dateTimeLayout),
			p.Name,
			strconv.Itoa(item.Quantity),
			p.Price.String(),
			amount.String(),
			string(tx.Profile.AgeGroup),
			string(tx.Profile.Gender),
			string(tx.Profile.Channel),
			flag(tx.Profile.Exhibitor),
			flag(tx.Profile.Acquaintance),
			flag(tx.Profile.Cashless),
			flag(tx.Profile.Reserved),
			flattenNotes(tx.Profile.Notes),
		}
		b.WriteString(quoteRow(fields))
	}
}

// quoteRow joins fields into one CSV line with every field quoted and
// internal quotes doubled.
func quoteRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",") + "\n"
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

var notesReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// flattenNotes folds embedded newlines to single spaces so a note
// never spans export rows.
func flattenNotes(s string) string {
	return notesReplacer.Replace(s)
}
