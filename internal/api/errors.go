package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"maker3d-backend/internal/services"
	"maker3d-backend/internal/utils"
)

// respondError maps service errors to HTTP status codes and the
// Turkish client-facing messages. Anything unrecognized is a 500.
func respondError(c *gin.Context, err error) {
	var verrs utils.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"message": verrs.Error()})
		return
	}

	switch {
	case errors.Is(err, services.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Sipariş öğesi bulunamadı"})
	case errors.Is(err, services.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Yeterli stok bulunmuyor"})
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Sipariş bulunamadı"})
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Ürün bulunamadı"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Kullanıcı bulunamadı"})
	case errors.Is(err, services.ErrAddressNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Adres bulunamadı"})
	case errors.Is(err, services.ErrNotAuthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Bu siparişi görüntüleme yetkiniz yok"})
	case errors.Is(err, services.ErrOrderNotCancellable):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Teslim edilen veya kargoya verilen siparişler iptal edilemez"})
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Geçersiz sipariş durumu"})
	case errors.Is(err, services.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Geçersiz ürün kategorisi"})
	case errors.Is(err, services.ErrAlreadyReviewed):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bu ürün için zaten bir değerlendirme yapmışsınız"})
	case errors.Is(err, services.ErrAlreadyInWishlist):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Ürün zaten favorilerde"})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bu e-posta adresi zaten kullanılıyor"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Geçersiz e-posta veya şifre"})
	case errors.Is(err, services.ErrSignatureMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Webhook imzası doğrulanamadı"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Sunucu hatası"})
	}
}

// respondBindError is used when gin fails to parse the request body
func respondBindError(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Geçersiz istek verisi"})
}
