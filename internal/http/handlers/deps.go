package handlers

import (
	"verdantshop/internal/config"
	"verdantshop/internal/llm"
	"verdantshop/internal/mail"
	"verdantshop/internal/redisx"
	"verdantshop/internal/repos"
	"verdantshop/internal/services"
	"verdantshop/internal/vector"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler         *AuthHandler
	CategoryHandler     *CategoryHandler
	ProductHandler      *ProductHandler
	SearchHandler       *SearchHandler
	CartHandler         *CartHandler
	OrderHandler        *OrderHandler
	WishlistHandler     *WishlistHandler
	ReviewHandler       *ReviewHandler
	NotificationHandler *NotificationHandler
	StockAlertHandler   *StockAlertHandler
	ChatbotHandler      *ChatbotHandler
	AdminHandler        *AdminHandler

	Auth *services.AuthService
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	userRepo := repos.NewUserRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	notifRepo := repos.NewNotificationRepo(db)
	alertRepo := repos.NewStockAlertRepo(db)
	stateRepo := repos.NewSyncStateRepo(db)
	chatRepo := repos.NewChatRepo(db)

	mailer := mail.New(cfg.EmailBackend, cfg.SMTPAddr, cfg.SMTPFrom)
	idx := vector.NewPinecone(cfg.PineconeKey, cfg.PineconeHost)
	model := llm.NewHF(cfg.HFToken, cfg.HFModel)
	cache := redisx.New(cfg.RedisAddr)

	auth := &services.AuthService{Users: userRepo}
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	notifySvc := services.NewNotificationService(notifRepo, userRepo, wishRepo, mailer)
	orderSvc := services.NewOrderService(orderRepo, cartRepo, prodRepo, notifySvc)
	wishSvc := services.NewWishlistService(wishRepo, prodRepo)
	reviewSvc := services.NewReviewService(reviewRepo, orderRepo, prodRepo)
	alertSvc := services.NewStockAlertService(alertRepo, prodRepo)
	monitor := services.NewStockMonitor(prodRepo, alertRepo, notifySvc)
	syncSvc := services.NewSyncService(prodRepo, catRepo, stateRepo, idx, model)
	botSvc := services.NewChatbotService(chatRepo, idx, model, cache)

	return &Deps{
		AuthHandler:         &AuthHandler{Auth: auth},
		CategoryHandler:     &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:      &ProductHandler{Catalog: catalogSvc, Reviews: reviewSvc},
		SearchHandler:       &SearchHandler{Catalog: catalogSvc},
		CartHandler:         &CartHandler{Cart: cartSvc},
		OrderHandler:        &OrderHandler{Order: orderSvc, Auth: auth},
		WishlistHandler:     &WishlistHandler{Wish: wishSvc},
		ReviewHandler:       &ReviewHandler{Reviews: reviewSvc},
		NotificationHandler: &NotificationHandler{Notify: notifySvc},
		StockAlertHandler:   &StockAlertHandler{Alerts: alertSvc},
		ChatbotHandler:      &ChatbotHandler{Bot: botSvc, Sync: syncSvc, Auth: auth},
		AdminHandler:        &AdminHandler{Catalog: catalogSvc, Order: orderSvc, Notify: notifySvc, Monitor: monitor},
		Auth:                auth,
	}
}
