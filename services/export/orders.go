// Package export writes spreadsheets out of backend data.
package export

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/eduport/admin/core/content"
)

const (
	OrdersSheet       = "Orders"
	XLSXContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ordersTotalHeader = "Total"
)

var orderHeaders = []string{"Order", "Date", "User", "Email", "Course", "Amount"}

// WriteOrders writes `orders` as an xlsx workbook to `w`, followed by a total row.
func WriteOrders(w io.Writer, orders []content.Order) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", OrdersSheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	for i, h := range orderHeaders {
		if err := f.SetCellValue(OrdersSheet, fmt.Sprintf("%c1", 'A'+i), h); err != nil {
			return errors.Wrap(err, "writing headers")
		}
	}

	row := 2
	for _, o := range orders {
		values := []interface{}{o.ID, o.CreatedAt, o.UserName, o.UserEmail, o.CourseName, o.Amount}
		for i, v := range values {
			if err := f.SetCellValue(OrdersSheet, fmt.Sprintf("%c%d", 'A'+i, row), v); err != nil {
				return errors.Wrapf(err, "writing order %s", o.ID)
			}
		}
		row++
	}
	if err := f.SetCellValue(OrdersSheet, fmt.Sprintf("E%d", row), ordersTotalHeader); err != nil {
		return errors.Wrap(err, "writing total")
	}
	if err := f.SetCellValue(OrdersSheet, fmt.Sprintf("F%d", row), content.Revenue(orders)); err != nil {
		return errors.Wrap(err, "writing total")
	}

	_ = f.SetColWidth(OrdersSheet, "A", "A", 28)
	_ = f.SetColWidth(OrdersSheet, "B", "B", 22)
	_ = f.SetColWidth(OrdersSheet, "C", "C", 18)
	_ = f.SetColWidth(OrdersSheet, "D", "D", 30)
	_ = f.SetColWidth(OrdersSheet, "E", "E", 30)
	_ = f.SetColWidth(OrdersSheet, "F", "F", 12)

	return errors.Wrap(f.Write(w), "writing workbook")
}
