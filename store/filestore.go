// Package store persists confirmed orders as flat comanda records: one file
// per order for history, plus a "latest" file for the kitchen printer.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/mariettabot/vendobot/catalog"
	"github.com/mariettabot/vendobot/dialog"
)

// FileStore implements dialog.OrderStore on the local filesystem.
type FileStore struct {
	// HistoryDir receives one pedido_NNNNN.txt per confirmed order.
	HistoryDir string
	// CounterPath is the order sequence file.
	CounterPath string
	// LatestPath is rewritten with every confirmation for printing.
	LatestPath string

	DeliveryFee int
	ETAMinutes  int

	mu  sync.Mutex
	now func() time.Time
}

// NewFileStore creates a file store rooted at dataDir, creating the history
// directory if needed.
func NewFileStore(dataDir string, deliveryFee, etaMinutes int) (*FileStore, error) {
	historyDir := filepath.Join(dataDir, "comandas")
	if err := os.MkdirAll(historyDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create comanda directory %s", historyDir)
	}
	return &FileStore{
		HistoryDir:  historyDir,
		CounterPath: filepath.Join(dataDir, "counter.txt"),
		LatestPath:  filepath.Join(dataDir, "comanda.txt"),
		DeliveryFee: deliveryFee,
		ETAMinutes:  etaMinutes,
		now:         time.Now,
	}, nil
}

// NextOrderID atomically bumps and returns the order sequence number.
func (s *FileStore) NextOrderID() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	raw, err := os.ReadFile(s.CounterPath)
	switch {
	case err == nil:
		if v, convErr := strconv.Atoi(strings.TrimSpace(string(raw))); convErr == nil {
			n = v
		}
	case !os.IsNotExist(err):
		return 0, errors.Wrapf(err, "failed to read counter file %s", s.CounterPath)
	}

	n++
	if err := os.WriteFile(s.CounterPath, []byte(strconv.Itoa(n)), 0o644); err != nil {
		return 0, errors.Wrapf(err, "failed to write counter file %s", s.CounterPath)
	}
	return n, nil
}

// SaveOrder renders the comanda and writes it twice: once under the order
// number for history and once as the latest record.
func (s *FileStore) SaveOrder(o *dialog.Order, cat *catalog.Catalog) error {
	title := "PEDIDO"
	if o.Modified {
		title = "PEDIDO MODIFICADO"
	}
	txt := s.Render(o, cat, title)

	var name string
	if o.OrderID > 0 {
		name = fmt.Sprintf("pedido_%05d.txt", o.OrderID)
	} else {
		name = fmt.Sprintf("pedido_%d.txt", s.now().Unix())
	}
	histPath := filepath.Join(s.HistoryDir, name)
	if err := os.WriteFile(histPath, []byte(txt), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write order history %s", histPath)
	}
	if err := os.WriteFile(s.LatestPath, []byte(txt), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write latest comanda %s", s.LatestPath)
	}
	return nil
}

// Render produces the printable comanda text for an order.
func (s *FileStore) Render(o *dialog.Order, cat *catalog.Catalog, title string) string {
	var b strings.Builder
	b.WriteString(title + "\n")
	fmt.Fprintf(&b, "Fecha: %s\n", s.now().Format("2006-01-02 15:04:05"))
	if o.OrderID > 0 {
		fmt.Fprintf(&b, "Pedido #%d\n", o.OrderID)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Cliente: %s\n", orDash(o.Name))
	b.WriteString("\nItems:\n")
	for _, e := range cat.Entries {
		if qty := o.Items[e.SKU]; qty > 0 {
			fmt.Fprintf(&b, "- %d x %s  ($%d c/u)\n", qty, e.Name, e.Price)
		}
	}
	b.WriteString("\n")
	if o.Delivery == dialog.DeliverySend {
		b.WriteString("Entrega: ENVÍO\n")
		fmt.Fprintf(&b, "Dirección: %s\n", orDash(o.Address))
		fmt.Fprintf(&b, "Envío: $%d\n", s.DeliveryFee)
	} else {
		b.WriteString("Entrega: RETIRO\n")
	}
	fmt.Fprintf(&b, "Pago: %s\n", orDash(o.Payment.String()))
	fmt.Fprintf(&b, "Total: $%d\n", o.Total(cat, s.DeliveryFee))
	fmt.Fprintf(&b, "Demora: %d min\n", s.ETAMinutes)

	if mods := o.RenderedMods(); len(mods) > 0 {
		b.WriteString("\nMODIFICACIONES:\n")
		for _, m := range mods {
			fmt.Fprintf(&b, "* %s\n", m)
		}
	}
	b.WriteString("\n")
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
