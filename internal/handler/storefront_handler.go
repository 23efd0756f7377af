package handler

import (
	"context"
	"embed"
	"html/template"
	"mime"
	"net/http"

	"mishtee/internal/middleware"
	"mishtee/internal/model"
	"mishtee/internal/service"
	"mishtee/pkg/pagination"
	"mishtee/pkg/response"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded page templates
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))
}

// AssetProvider supplies the brand stylesheet and logo
type AssetProvider interface {
	Stylesheet(ctx context.Context) string
	Logo(ctx context.Context) (string, bool)
}

type StorefrontHandler struct {
	storefront service.StorefrontService
	assets     AssetProvider
	sessions   *middleware.Sessions
	apiLimit   gin.HandlerFunc
	formLimit  gin.HandlerFunc
}

// NoticeRateLimited replaces the dashboard when the login form is submitted too often
const NoticeRateLimited = "Too many attempts. Please wait a moment and try again."

type pageData struct {
	Phone     string
	HasCSS    bool
	HasLogo   bool
	Notice    string
	Dashboard *model.Dashboard
}

// NewStorefrontHandler sets up the dashboard page and API endpoints. limiter
// guards the login endpoints and may be nil.
func NewStorefrontHandler(storefront service.StorefrontService, assets AssetProvider, sessions *middleware.Sessions, limiter *middleware.RateLimiter) *StorefrontHandler {
	h := &StorefrontHandler{storefront: storefront, assets: assets, sessions: sessions}
	if limiter == nil {
		pass := func(c *gin.Context) { c.Next() }
		h.apiLimit, h.formLimit = pass, pass
		return h
	}
	h.apiLimit = limiter.Handler()
	h.formLimit = limiter.HandlerWith(h.loginRateLimited)
	return h
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *StorefrontHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", h.Index)
	router.POST("/login", h.formLimit, h.Login)
	router.GET("/assets/logo.png", h.Logo)
	router.GET("/assets/style.css", h.Stylesheet)

	api := router.Group("/api")
	{
		api.GET("/dashboard", h.apiLimit, h.GetDashboard)
		api.GET("/trending", h.GetTrending)
		api.GET("/customers/:phone/orders", h.GetOrderHistory)
		api.GET("/customers/:phone/orders.xlsx", h.ExportOrderHistory)
		api.GET("/me", h.sessions.RequireSession(), h.GetMe)
	}
}

func (h *StorefrontHandler) page(c *gin.Context, dash *model.Dashboard) pageData {
	ctx := c.Request.Context()
	_, hasLogo := h.assets.Logo(ctx)
	data := pageData{
		HasCSS:    h.assets.Stylesheet(ctx) != "",
		HasLogo:   hasLogo,
		Dashboard: dash,
	}
	if dash != nil {
		data.Phone = dash.Phone
	}
	return data
}

// Index renders the landing page with the login form
func (h *StorefrontHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.tmpl", h.page(c, nil))
}

// Login handles the login form submit and renders greeting, history and trending
func (h *StorefrontHandler) Login(c *gin.Context) {
	dash := h.storefront.Login(c.Request.Context(), c.PostForm("phone"))
	h.rememberCustomer(c, dash)
	c.HTML(http.StatusOK, "index.tmpl", h.page(c, &dash))
}

func (h *StorefrontHandler) loginRateLimited(c *gin.Context) {
	data := h.page(c, nil)
	data.Phone = c.PostForm("phone")
	data.Notice = NoticeRateLimited
	c.HTML(http.StatusTooManyRequests, "index.tmpl", data)
}

func (h *StorefrontHandler) rememberCustomer(c *gin.Context, dash model.Dashboard) {
	if !dash.KnownUser {
		return
	}
	token, err := h.sessions.Issue(dash.Phone)
	if err != nil {
		log.WithError(err).Warn("failed to issue session token")
		return
	}
	h.sessions.SetCookie(c, token)
}

// Logo serves the cached brand logo
func (h *StorefrontHandler) Logo(c *gin.Context) {
	path, ok := h.assets.Logo(c.Request.Context())
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.File(path)
}

// Stylesheet serves the fetched brand stylesheet, empty when unavailable
func (h *StorefrontHandler) Stylesheet(c *gin.Context) {
	c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(h.assets.Stylesheet(c.Request.Context())))
}

// GetDashboard returns the login result as JSON
// @Summary      Customer dashboard
// @Description  Greets the customer by phone and returns order history plus trending products
// @Tags         storefront
// @Produce      json
// @Param        phone  query     string  true  "Mobile number"
// @Success      200    {object}  response.Response{data=model.Dashboard}
// @Failure      429    {object}  response.Response
// @Router       /api/dashboard [get]
func (h *StorefrontHandler) GetDashboard(c *gin.Context) {
	dash := h.storefront.Login(c.Request.Context(), c.Query("phone"))
	h.rememberCustomer(c, dash)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dash))
}

// GetTrending returns the current best sellers
// @Summary      Trending products
// @Description  Top best-selling products by total quantity sold
// @Tags         storefront
// @Produce      json
// @Success      200  {object}  response.Response{data=model.TrendingTable}
// @Router       /api/trending [get]
func (h *StorefrontHandler) GetTrending(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.storefront.Trending(c.Request.Context())))
}

// GetOrderHistory returns one page of a customer's orders, newest first
// @Summary      Order history
// @Tags         storefront
// @Produce      json
// @Param        phone  path      string  true   "Mobile number"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=[]model.HistoryRow}
// @Failure      500    {object}  response.Response
// @Router       /api/customers/{phone}/orders [get]
func (h *StorefrontHandler) GetOrderHistory(c *gin.Context) {
	p := pagination.Parse(c)
	rows, total, err := h.storefront.History(c.Request.Context(), c.Param("phone"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Error retrieving orders: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Page(http.StatusOK, rows, p.NewMeta(total)))
}

// ExportOrderHistory streams the full order history as an Excel workbook
// @Summary      Export order history
// @Tags         storefront
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        phone  path  string  true  "Mobile number"
// @Success      200
// @Failure      500  {object}  response.Response
// @Router       /api/customers/{phone}/orders.xlsx [get]
func (h *StorefrontHandler) ExportOrderHistory(c *gin.Context) {
	phone := c.Param("phone")
	rows, _, err := h.storefront.History(c.Request.Context(), phone, 1, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Error retrieving orders: "+err.Error()))
		return
	}

	data, err := HistoryWorkbook(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to build workbook: "+err.Error()))
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": "orders-" + phone + ".xlsx"}))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetMe returns the dashboard for the customer remembered by the session token
// @Summary      Current customer dashboard
// @Tags         storefront
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.Dashboard}
// @Failure      401  {object}  response.Response
// @Router       /api/me [get]
func (h *StorefrontHandler) GetMe(c *gin.Context) {
	dash := h.storefront.Login(c.Request.Context(), c.GetString(middleware.CustomerPhoneKey))
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dash))
}
