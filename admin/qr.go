package admin

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"turfbook/db"
	"turfbook/middleware"
	"turfbook/models"
	"turfbook/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func paymentText(b *models.Booking, u *models.User) string {
	return fmt.Sprintf("Turf Booking - ID: %s, Amount: %.2f, Name: %s, Phone: %s",
		b.ID, b.TotalAmount, u.Name, u.Phone)
}

func bookingWithOwner(ctx context.Context, bookingID string) (*models.Booking, *models.User, error) {
	var b models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": bookingID}).Decode(&b); err != nil {
		return nil, nil, err
	}
	var u models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"id": b.UserID}).Decode(&u); err != nil {
		return nil, nil, err
	}
	return &b, &u, nil
}

// GET /api/payment/qrcode/:bookingId
// Returns the payment QR as a base64 PNG data URL, plus the encoded text.
func GeneratePaymentQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, u, err := bookingWithOwner(ctx, ps.ByName("bookingId"))
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusNotFound, "Booking not found", middleware.TraceID(r))
		return
	}

	text := paymentText(b, u)
	png, err := qrcode.Encode(text, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Failed to generate QR code", middleware.TraceID(r))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"qrCode":      "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		"paymentText": text,
	})
}

// GET /api/payment/receipt/:bookingId
// Printable PDF receipt with the payment QR embedded.
func PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, u, err := bookingWithOwner(ctx, ps.ByName("bookingId"))
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusNotFound, "Booking not found", middleware.TraceID(r))
		return
	}

	png, err := qrcode.Encode(paymentText(b, u), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Failed to generate QR code", middleware.TraceID(r))
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Turf Booking Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Booking ID: %s", b.ID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Name: %s", u.Name))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s  %s - %s", b.BookingDate, b.StartTime, b.EndTime))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Amount: %.2f", b.TotalAmount))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(png))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Failed to generate PDF", middleware.TraceID(r))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+b.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
