package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with its user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps low-level database errors onto the code taxonomy without
// leaking driver internals to the client. The context string names the
// operation ("create address", "merge cart", ...) so messages can be specific.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Terjadi kesalahan pada server",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// Unique constraint violation (postgres 23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		if strings.Contains(errStrLower, "email") || strings.Contains(errStrLower, "idx_users_email") {
			return ErrorInfo{
				Code:    AuthEmailAlreadyExists,
				Message: "Email sudah terdaftar",
			}
		}
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Data sudah ada",
		}
	}

	// Foreign key constraint violation (postgres 23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		if strings.Contains(errStrLower, "product_id") {
			return ErrorInfo{
				Code:    ProductNotFound,
				Message: "Produk tidak ditemukan",
			}
		}
		if strings.Contains(errStrLower, "cart_id") {
			return ErrorInfo{
				Code:    CartNotFound,
				Message: "Keranjang tidak ditemukan",
			}
		}
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Data yang dirujuk tidak ditemukan",
		}
	}

	// Not null constraint violation (postgres 23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "Ada field wajib yang belum diisi",
		}
	}

	// Connection-level failures
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Koneksi ke server gagal. Silakan coba beberapa saat lagi",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "product") {
		return "Produk tidak ditemukan"
	}
	if strings.Contains(contextLower, "cart item") {
		return "Item keranjang tidak ditemukan"
	}
	if strings.Contains(contextLower, "cart") {
		return "Keranjang tidak ditemukan"
	}
	if strings.Contains(contextLower, "address") {
		return "Alamat tidak ditemukan"
	}
	if strings.Contains(contextLower, "user") {
		return "Pengguna tidak ditemukan"
	}

	return "Data tidak ditemukan"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "add") {
		return "Gagal menyimpan data. Silakan coba beberapa saat lagi"
	}
	if strings.Contains(contextLower, "update") {
		return "Gagal memperbarui data. Silakan coba beberapa saat lagi"
	}
	if strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "remove") || strings.Contains(contextLower, "clear") {
		return "Gagal menghapus data. Silakan coba beberapa saat lagi"
	}
	if strings.Contains(contextLower, "merge") {
		return "Gagal menggabungkan keranjang. Silakan coba beberapa saat lagi"
	}

	return "Terjadi kesalahan pada server. Silakan coba beberapa saat lagi"
}

// ParseAndRespond parses the error and writes the mapped response in one go.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
