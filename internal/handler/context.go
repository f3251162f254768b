package handler

type ContextKey string

var (
	RoleCtxKey      ContextKey = "role"
	SubCtxKey       ContextKey = "sub"
	MyInfoCtx       ContextKey = "myInfo"
	UserInfoCtx     ContextKey = "userInfo"
	MerchantCtx     ContextKey = "merchant"
	MenuCategoryCtx ContextKey = "menuCategory"
	MenuItemCtx     ContextKey = "menuItem"
	OrderCtx        ContextKey = "order"
)
