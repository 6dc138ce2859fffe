package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-role-admin/internal/domain"
	"user-role-admin/internal/service"
	"user-role-admin/internal/transport/http/ez"
)

type RoleHandler struct {
	svc *service.RoleService
	log *zap.Logger
}

func NewRoleHandler(svc *service.RoleService, l *zap.Logger) *RoleHandler {
	return &RoleHandler{svc: svc, log: l}
}

func (h *RoleHandler) Priority() int { return 10 }

type createRoleIn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateRoleIn struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type listRolesIn struct {
	pageQuery
	Name string `form:"name"`
}

func (h *RoleHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api, h.log)

	ez.RegisterAction(e, ez.Action[createRoleIn, *domain.Role]{
		Method:  http.MethodPost,
		Path:    "/roles",
		Binder:  ez.BindJSON,
		Status:  http.StatusCreated,
		Message: "Role created successfully",
		Handler: func(c *gin.Context, in *createRoleIn) (*domain.Role, error) {
			return h.svc.Create(c.Request.Context(), service.CreateRoleInput{
				Name: in.Name, Description: in.Description,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[listRolesIn, pageOut[domain.Role]]{
		Method: http.MethodGet,
		Path:   "/roles",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listRolesIn) (pageOut[domain.Role], error) {
			p, err := h.svc.List(c.Request.Context(), domain.RoleQuery{Name: in.Name, PageRequest: in.request()})
			return pageOut[domain.Role]{p: p}, err
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Role]{
		Method: http.MethodGet,
		Path:   "/roles/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Role, error) {
			return h.svc.Get(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[updateRoleIn, *domain.Role]{
		Method:  http.MethodPut,
		Path:    "/roles/:id",
		Binder:  ez.BindJSON,
		Message: "Role updated successfully",
		Handler: func(c *gin.Context, in *updateRoleIn) (*domain.Role, error) {
			return h.svc.Update(c.Request.Context(), c.Param("id"), domain.RolePatch{
				Name: in.Name, Description: in.Description,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, ez.NoData]{
		Method:  http.MethodDelete,
		Path:    "/roles/:id",
		Binder:  ez.BindNone,
		Message: "Role deleted successfully",
		Handler: func(c *gin.Context, _ *struct{}) (ez.NoData, error) {
			return ez.NoData{}, h.svc.Delete(c.Request.Context(), c.Param("id"))
		},
	})
}
