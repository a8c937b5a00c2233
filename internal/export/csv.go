package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/transport"
)

const (
	Filename = "order_history.csv"

	// DateLayout matches how the database renders a timestamptz.
	DateLayout = "2006-01-02 15:04:05.999999-07:00"
)

var Header = []string{"Order ID", "Customer Name", "Order Date", "Total Amount"}

func WriteOrdersCSV(w io.Writer, rows []transport.ExportRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("csv: header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.FormatUint(uint64(r.OrderID), 10),
			r.CustomerName,
			r.OrderDate.Format(DateLayout),
			r.TotalAmount.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv: order %d: %w", r.OrderID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
