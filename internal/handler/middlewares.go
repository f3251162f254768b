package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/diancan-dev/waimai/backend/internal/domain"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 从 cookie 中获取 token
		cookie, err := r.Cookie("__waimai_token")
		if err != nil {
			switch {
			case errors.Is(err, http.ErrNoCookie):
				h.errorResponse(w, r, "用户未登录")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		// 验证 token
		tokenString := cookie.Value
		claims := &AuthClaims{}
		_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		})
		if err != nil {
			h.errorResponse(w, r, "无效的令牌")
			return
		}

		// 将 claims 中的 role 和 sub 附在 context 中
		ctx := r.Context()
		ctx = context.WithValue(ctx, RoleCtxKey, claims.Role)
		ctx = context.WithValue(ctx, SubCtxKey, claims.Subject)

		// 执行下一个 handler
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) myInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subString := r.Context().Value(SubCtxKey).(string)

		sub, err := strconv.ParseInt(subString, 10, 64)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		myInfo, err := h.repository.GetUserByID(sub)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "个人信息不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), MyInfoCtx, myInfo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleCtx := r.Context().Value(RoleCtxKey).(string)
			role := domain.Role(roleCtx)
			if !slices.Contains(roles, role) {
				h.errorResponse(w, r, "权限不足")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) userInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDParam := chi.URLParam(r, "id")
		userID, err := strconv.ParseInt(userIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "用户ID无效")
			return
		}

		user, err := h.repository.GetUserByID(userID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "用户不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), UserInfoCtx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) preventOperateInitialAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := r.Context().Value(UserInfoCtx).(*domain.User)
		if user.Username == h.config.InitialAdmin.Username {
			h.errorResponse(w, r, "禁止操作初始管理员")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) merchant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		merchantIDParam := chi.URLParam(r, "id")
		merchantID, err := strconv.ParseInt(merchantIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "商家ID无效")
			return
		}

		merchant, err := h.repository.GetMerchantByID(merchantID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "商家不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), MerchantCtx, merchant)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireMerchantOwner 要求当前用户是 context 中商家的拥有者，管理员不受限制
func (h *Handler) requireMerchantOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := domain.Role(r.Context().Value(RoleCtxKey).(string))
		if role == domain.RoleAdmin {
			next.ServeHTTP(w, r)
			return
		}

		subString := r.Context().Value(SubCtxKey).(string)
		sub, err := strconv.ParseInt(subString, 10, 64)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)
		if merchant.OwnerID != sub {
			h.errorResponse(w, r, "只有商家本人才能执行此操作")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// menuCategory 加载分类，并顺带把所属商家也放进 context，方便复用 requireMerchantOwner
func (h *Handler) menuCategory(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		categoryIDParam := chi.URLParam(r, "id")
		categoryID, err := strconv.ParseInt(categoryIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "分类ID无效")
			return
		}

		category, err := h.repository.GetMenuCategoryByID(categoryID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "分类不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		merchant, err := h.repository.GetMerchantByID(category.MerchantID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), MenuCategoryCtx, category)
		ctx = context.WithValue(ctx, MerchantCtx, merchant)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// menuItem 加载菜品，沿着 分类 -> 商家 补全 context
func (h *Handler) menuItem(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		itemIDParam := chi.URLParam(r, "id")
		itemID, err := strconv.ParseInt(itemIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "菜品ID无效")
			return
		}

		item, err := h.repository.GetMenuItemByID(itemID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "菜品不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		category, err := h.repository.GetMenuCategoryByID(item.CategoryID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		merchant, err := h.repository.GetMerchantByID(category.MerchantID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), MenuItemCtx, item)
		ctx = context.WithValue(ctx, MenuCategoryCtx, category)
		ctx = context.WithValue(ctx, MerchantCtx, merchant)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) order(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orderIDParam := chi.URLParam(r, "id")
		orderID, err := strconv.ParseInt(orderIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "订单ID无效")
			return
		}

		order, err := h.repository.GetOrderByID(orderID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "订单不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), OrderCtx, order)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
