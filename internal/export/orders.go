package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"github.com/Skotchmaster/flower_shop/internal/models"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var orderHeaders = []string{
	"OrderID", "DetailID", "CreatedAt", "BuyerID", "Phone", "FlowerID",
	"Price", "Amount", "LineTotal", "ShippingFee", "OrderStatus", "DetailStatus", "TransactionID",
}

// WriteSellerOrders renders one row per order detail.
func WriteSellerOrders(w io.Writer, orders []models.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("xlsx: add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range orderHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		for _, d := range o.Details {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.ID)
			row.AddCell().SetValue(d.ID)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(o.Phone)
			row.AddCell().SetValue(d.FlowerID)
			row.AddCell().SetValue(d.Price.StringFixed(2))
			row.AddCell().SetValue(d.Amount)
			row.AddCell().SetValue(d.Price.Mul(decimal.NewFromInt(int64(d.Amount))).StringFixed(2))
			row.AddCell().SetValue(o.ShippingFee.StringFixed(2))
			row.AddCell().SetValue(o.Status)
			row.AddCell().SetValue(d.Status)
			row.AddCell().SetValue(o.TransactionID)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}
