package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	authmw "github.com/SaiChaitanya436/Restauarant-Management-Application/internal/middleware/auth"
)

type Deps struct {
	AuthHandler  *AuthHTTP
	MenuHandler  *MenuHTTP
	CartHandler  *CartHTTP
	OrderHandler *OrderHTTP

	JWTSecret    []byte
	Refresher    authmw.Refresher
	SecureCookie bool

	// AuthRatePerSec limits signup and login attempts per client IP. Zero disables it.
	AuthRatePerSec float64
	Ready          func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := authmw.NewAutoRefreshMiddleware(d.JWTSecret, d.Refresher, d.SecureCookie)

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	limited := []echo.MiddlewareFunc{}
	if d.AuthRatePerSec > 0 {
		burst := max(int(d.AuthRatePerSec*2), 1)
		limited = append(limited, middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(d.AuthRatePerSec),
				Burst:     burst,
				ExpiresIn: 3 * time.Minute,
			},
		)))
	}
	auth.POST("/signup", d.AuthHandler.SignUp, limited...)
	auth.POST("/login", d.AuthHandler.Login, limited...)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.LogOut)

	menu := v1.Group("/menu", authMW.RequireAuth)
	menu.GET("", d.MenuHandler.GetMenuItems)
	menu.GET("/search", d.MenuHandler.SearchMenuItems)
	menu.GET("/:id", d.MenuHandler.GetMenuItem)

	cart := v1.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.CartHandler.ViewCart)
	cart.POST("/items/:menu_item_id", d.CartHandler.AddItem)
	cart.DELETE("/items/:menu_item_id", d.CartHandler.RemoveItem)
	cart.POST("/confirm", d.OrderHandler.ConfirmOrder)

	orders := v1.Group("/orders", authMW.RequireAuth)
	orders.GET("", d.OrderHandler.ListOrders)

	admin := v1.Group("/admin", authMW.RequireAdmin)
	admin.POST("/menu", d.MenuHandler.CreateMenuItem)
	admin.PATCH("/menu/:id", d.MenuHandler.UpdateMenuItem)
	admin.DELETE("/menu/:id", d.MenuHandler.DeleteMenuItem)
	admin.GET("/orders", d.OrderHandler.ListAllOrders)
	admin.GET("/orders/export", d.OrderHandler.ExportOrders)
	admin.DELETE("/orders", d.OrderHandler.ClearOrders)
}
