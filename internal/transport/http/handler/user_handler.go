package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-role-admin/internal/domain"
	"user-role-admin/internal/service"
	"user-role-admin/internal/transport/http/ez"
	resp "user-role-admin/internal/transport/http/response"
)

type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewUserHandler(svc *service.UserService, l *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: l}
}

func (h *UserHandler) Priority() int { return 20 }

type createUserIn struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
	Role      string `json:"role"`
}

type updateUserIn struct {
	Username   *string `json:"username"`
	Password   *string `json:"password"`
	Email      *string `json:"email"`
	FullName   *string `json:"fullName"`
	AvatarURL  *string `json:"avatarUrl"`
	Status     *bool   `json:"status"`
	Role       *string `json:"role"`
	LoginCount *int    `json:"loginCount"`
}

type listUsersIn struct {
	pageQuery
	Username string `form:"username"`
	FullName string `form:"fullName"`
}

type verifyIn struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type alreadyActiveView struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Status   bool   `json:"status"`
}

type activatedView struct {
	Username string          `json:"username"`
	Email    string          `json:"email"`
	FullName string          `json:"fullName"`
	Status   bool            `json:"status"`
	Role     *domain.RoleRef `json:"role"`
}

type verifyOut struct {
	msg  string
	data any
}

func (o verifyOut) Envelope() resp.Envelope { return resp.OK(o.msg, o.data) }

func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api, h.log)

	ez.RegisterAction(e, ez.Action[createUserIn, *domain.User]{
		Method:  http.MethodPost,
		Path:    "/users",
		Binder:  ez.BindJSON,
		Status:  http.StatusCreated,
		Message: "User created successfully",
		Handler: func(c *gin.Context, in *createUserIn) (*domain.User, error) {
			return h.svc.Create(c.Request.Context(), service.CreateUserInput{
				Username:  in.Username,
				Password:  in.Password,
				Email:     in.Email,
				FullName:  in.FullName,
				AvatarURL: in.AvatarURL,
				Role:      in.Role,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[listUsersIn, pageOut[domain.User]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listUsersIn) (pageOut[domain.User], error) {
			p, err := h.svc.List(c.Request.Context(), domain.UserQuery{
				Username:    in.Username,
				FullName:    in.FullName,
				PageRequest: in.request(),
			})
			return pageOut[domain.User]{p: p}, err
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/id/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.GetByID(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/username/:username",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.GetByUsername(c.Request.Context(), c.Param("username"))
		},
	})

	ez.RegisterAction(e, ez.Action[updateUserIn, *domain.User]{
		Method:  http.MethodPut,
		Path:    "/users/:id",
		Binder:  ez.BindJSON,
		Message: "User updated successfully",
		Handler: func(c *gin.Context, in *updateUserIn) (*domain.User, error) {
			return h.svc.Update(c.Request.Context(), c.Param("id"), service.UpdateUserInput{
				Username:   in.Username,
				Password:   in.Password,
				Email:      in.Email,
				FullName:   in.FullName,
				AvatarURL:  in.AvatarURL,
				Status:     in.Status,
				Role:       in.Role,
				LoginCount: in.LoginCount,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, ez.NoData]{
		Method:  http.MethodDelete,
		Path:    "/users/:id",
		Binder:  ez.BindNone,
		Message: "User deleted successfully",
		Handler: func(c *gin.Context, _ *struct{}) (ez.NoData, error) {
			return ez.NoData{}, h.svc.Delete(c.Request.Context(), c.Param("id"))
		},
	})

	// 非 REST 动作：校验 email + username 并激活
	ez.RegisterAction(e, ez.Action[verifyIn, verifyOut]{
		Method: http.MethodPost,
		Path:   "/users/verify-activate",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *verifyIn) (verifyOut, error) {
			res, err := h.svc.VerifyAndActivate(c.Request.Context(), in.Email, in.Username)
			if err != nil {
				return verifyOut{}, err
			}
			u := res.User
			if res.AlreadyActive {
				return verifyOut{
					msg:  "User is already activated",
					data: alreadyActiveView{Username: u.Username, Email: u.Email, Status: u.Status},
				}, nil
			}
			return verifyOut{
				msg: "User activated successfully",
				data: activatedView{
					Username: u.Username, Email: u.Email, FullName: u.FullName, Status: u.Status, Role: u.Role,
				},
			}, nil
		},
	})
}
