package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/diancan-dev/waimai/backend/internal/availability"
	"github.com/diancan-dev/waimai/backend/internal/config"
	"github.com/diancan-dev/waimai/backend/internal/domain"
	"github.com/diancan-dev/waimai/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	clock       availability.Clock

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		clock:       availability.RealClock{},

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/register", h.Register)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).Delete("/", h.DeleteUser)
				r.Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/merchants", func(r chi.Router) {
			r.With(h.myInfo).With(h.RequiredRole([]domain.Role{domain.RoleMerchant, domain.RoleAdmin})).Post("/", h.CreateMerchant)
			r.Get("/", h.GetAllMerchants)
			r.With(h.myInfo).Get("/mine", h.GetMyMerchants)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.merchant)
				r.Get("/", h.GetMerchant)
				r.Get("/status", h.GetMerchantStatus)
				r.Get("/menu", h.GetMerchantMenu)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteMerchant)

				// 以下操作只允许商家本人或管理员
				r.Group(func(r chi.Router) {
					r.Use(h.requireMerchantOwner)
					r.Patch("/", h.UpdateMerchant)
					r.Patch("/manual-open", h.UpdateMerchantManualOpen)
					r.Post("/temporary-close", h.TemporaryCloseMerchant)
					r.Delete("/temporary-close", h.CancelTemporaryClose)
					r.Post("/categories", h.CreateMenuCategory)
					r.Route("/working-hours", func(r chi.Router) {
						r.Get("/", h.GetWorkingHours)
						r.Put("/", h.UpdateWorkingHours)
						r.Patch("/{day}", h.UpdateWorkingHoursDay)
						r.Post("/uniform", h.SetUniformWorkingHours)
						r.Post("/copy-day", h.CopyWorkingHoursDay)
						r.Post("/weekdays", h.SetWeekdayWorkingHours)
						r.Post("/weekend", h.SetWeekendWorkingHours)
					})
				})
			})
		})

		r.Route("/categories/{id}", func(r chi.Router) {
			r.Use(h.menuCategory)
			r.Use(h.requireMerchantOwner)
			r.Patch("/", h.UpdateMenuCategory)
			r.Delete("/", h.DeleteMenuCategory)
			r.Post("/items", h.CreateMenuItem)
		})

		r.Route("/menu-items/{id}", func(r chi.Router) {
			r.Use(h.menuItem)
			r.Use(h.requireMerchantOwner)
			r.Patch("/", h.UpdateMenuItem)
			r.Delete("/", h.DeleteMenuItem)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleCustomer}))
			r.Get("/", h.GetCart)
			r.Put("/", h.UpdateCart)
			r.Delete("/", h.ClearCart)
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(h.myInfo).With(h.RequiredRole([]domain.Role{domain.RoleCustomer})).Post("/", h.CreateOrder)
			r.With(h.myInfo).Get("/", h.GetMyOrders)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.order)
				r.Use(h.myInfo)
				r.Get("/", h.GetOrder)
				r.Patch("/status", h.UpdateOrderStatus)
				r.Post("/assign-courier", h.AssignCourier)
			})
		})

		r.Route("/courier-profile", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleCourier}))
			r.Put("/", h.UpsertCourierProfile)
			r.Get("/", h.GetCourierProfile)
		})
	})
}
