package controllers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Govind-619/ShipSphere/models"
	"github.com/Govind-619/ShipSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"
)

var rateExportHeaders = []string{
	"ID", "Name", "Kind", "Pincode", "Prefix", "Zone", "Base Cost", "Surcharge",
	"Free Above", "Delivery Days", "Active", "Updated",
}

func deliveryDays(rate *models.ShippingRate) string {
	switch {
	case rate.EstimatedDeliveryMin != nil && rate.EstimatedDeliveryMax != nil:
		return fmt.Sprintf("%d-%d", *rate.EstimatedDeliveryMin, *rate.EstimatedDeliveryMax)
	case rate.EstimatedDeliveryMin != nil:
		return fmt.Sprintf("%d+", *rate.EstimatedDeliveryMin)
	case rate.EstimatedDeliveryMax != nil:
		return fmt.Sprintf("up to %d", *rate.EstimatedDeliveryMax)
	}
	return ""
}

func freeAbove(rate *models.ShippingRate) string {
	if !rate.FreeShippingThreshold.Valid {
		return ""
	}
	return rate.FreeShippingThreshold.Decimal.StringFixed(2)
}

// rateExportRow renders rate as the cells of one export row
func rateExportRow(rate *models.ShippingRate) []string {
	active := "No"
	if rate.IsActive {
		active = "Yes"
	}
	return []string{
		strconv.FormatUint(uint64(rate.ID), 10),
		rate.Name,
		string(rate.Kind()),
		models.StringValue(rate.Pincode),
		models.StringValue(rate.PincodePrefix),
		models.StringValue(rate.Zone),
		rate.BaseCost.StringFixed(2),
		rate.Surcharge.StringFixed(2),
		freeAbove(rate),
		deliveryDays(rate),
		active,
		rate.UpdatedAt.Format("2006-01-02 15:04"),
	}
}

// WriteRatesExcel renders rates as an xlsx workbook
func WriteRatesExcel(w io.Writer, rates []models.ShippingRate, generatedAt time.Time) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Shipping Rates")
	if err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString(utils.AppName + " - Shipping Rates")
	infoRow := sheet.AddRow()
	infoRow.AddCell().SetString("Generated: " + generatedAt.Format("2006-01-02 15:04"))
	sheet.AddRow()

	bold := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	bold.Font = *font

	headerRow := sheet.AddRow()
	for _, h := range rateExportHeaders {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(bold)
	}

	for i := range rates {
		rate := &rates[i]
		row := sheet.AddRow()
		for col, value := range rateExportRow(rate) {
			cell := row.AddCell()
			switch col {
			case 0:
				cell.SetInt(int(rate.ID))
			case 6:
				cell.SetFloat(rate.BaseCost.InexactFloat64())
			case 7:
				cell.SetFloat(rate.Surcharge.InexactFloat64())
			case 8:
				if rate.FreeShippingThreshold.Valid {
					cell.SetFloat(rate.FreeShippingThreshold.Decimal.InexactFloat64())
				}
			default:
				cell.SetString(value)
			}
		}
	}

	return file.Write(w)
}

// WriteRatesPDF renders rates as a landscape PDF rate card
func WriteRatesPDF(w io.Writer, rates []models.ShippingRate, generatedAt time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, utils.AppName+" Shipping Rate Card")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(100, 8, "Generated: "+generatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	widths := []float64{12, 40, 16, 20, 18, 28, 22, 22, 22, 24, 14, 30}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range rateExportHeaders {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for i := range rates {
		for col, value := range rateExportRow(&rates[i]) {
			align := "L"
			if col >= 6 && col <= 8 {
				align = "R"
			}
			pdf.CellFormat(widths[col], 7, value, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 8, "Exact pincode rates apply first, then the longest matching prefix, then the default rate.")

	return pdf.Output(w)
}

// DownloadShippingRatesExcel handles GET /admin/shipping-rates/export/xlsx
func (h *ShippingRateController) DownloadShippingRatesExcel(c *gin.Context) {
	utils.LogInfo("DownloadShippingRatesExcel called")

	rates, err := h.rates.Export(c.Request.Context())
	if err != nil {
		utils.RespondError(c, "Failed to fetch shipping rates", err)
		return
	}

	var buf bytes.Buffer
	if err := WriteRatesExcel(&buf, rates, time.Now()); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", nil)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=shipping_rates.xlsx")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	utils.LogInfo("Generated Excel export with %d shipping rates", len(rates))
}

// DownloadShippingRatesPDF handles GET /admin/shipping-rates/export/pdf
func (h *ShippingRateController) DownloadShippingRatesPDF(c *gin.Context) {
	utils.LogInfo("DownloadShippingRatesPDF called")

	rates, err := h.rates.Export(c.Request.Context())
	if err != nil {
		utils.RespondError(c, "Failed to fetch shipping rates", err)
		return
	}

	var buf bytes.Buffer
	if err := WriteRatesPDF(&buf, rates, time.Now()); err != nil {
		utils.LogError("Failed to write PDF file: %v", err)
		utils.InternalServerError(c, "Failed to write PDF file", nil)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=shipping_rates.pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	utils.LogInfo("Generated PDF rate card with %d shipping rates", len(rates))
}
