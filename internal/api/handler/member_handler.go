package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/craftmarket/auth-api/internal/core/domain"
	"github.com/craftmarket/auth-api/internal/core/ports"
)

type MemberHandler struct {
	members ports.MemberRepository
}

func NewMemberHandler(members ports.MemberRepository) *MemberHandler {
	return &MemberHandler{members: members}
}

type memberResponse struct {
	ID              int64  `json:"id"`
	Email           string `json:"email"`
	Nickname        string `json:"nickname"`
	Role            string `json:"role"`
	PasswordExpired bool   `json:"password_expired"`
}

// Me returns the authenticated member's profile.
//
// @Summary      Get own profile
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  memberResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /members/me [get]
func (h *MemberHandler) Me(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	member, err := h.members.FindByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemberResponse(member))
}

// List returns all members. Admin only.
//
// @Summary      List members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   memberResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /members [get]
func (h *MemberHandler) List(c echo.Context) error {
	members, err := h.members.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	return c.JSON(http.StatusOK, out)
}

func toMemberResponse(m *domain.Member) memberResponse {
	return memberResponse{
		ID:              m.ID,
		Email:           m.Email,
		Nickname:        m.Nickname,
		Role:            m.Role,
		PasswordExpired: m.PasswordExpired(time.Now().UTC()),
	}
}
