package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sitrus/server/internal/models"
)

func (h *Handler) GetFAQs(c *gin.Context) {
	faqs, err := h.db.GetAllFAQs(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to get faqs")
		return
	}
	respond(c, http.StatusOK, faqs)
}

func (h *Handler) GetFAQ(c *gin.Context) {
	faq, err := h.db.GetFAQByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get faq")
		return
	}
	respond(c, http.StatusOK, faq)
}

func (h *Handler) CreateFAQ(c *gin.Context) {
	var req models.FAQRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err, "Invalid faq payload")
		return
	}

	faq := &models.FAQ{
		Question: strings.TrimSpace(req.Question),
		Answer:   strings.TrimSpace(req.Answer),
	}
	if err := h.db.CreateFAQ(c.Request.Context(), faq); err != nil {
		h.fail(c, err, "Failed to create faq")
		return
	}
	respondMessage(c, http.StatusCreated, faq, "FAQ created successfully")
}

func (h *Handler) UpdateFAQ(c *gin.Context) {
	var req models.FAQRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err, "Invalid faq payload")
		return
	}

	ctx := c.Request.Context()
	faq, err := h.db.GetFAQByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get faq")
		return
	}

	faq.Question = strings.TrimSpace(req.Question)
	faq.Answer = strings.TrimSpace(req.Answer)
	if err := h.db.UpdateFAQ(ctx, faq); err != nil {
		h.fail(c, err, "Failed to update faq")
		return
	}
	respondMessage(c, http.StatusOK, faq, "FAQ updated successfully")
}

func (h *Handler) DeleteFAQ(c *gin.Context) {
	if err := h.db.DeleteFAQ(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete faq")
		return
	}
	respondMessage(c, http.StatusOK, nil, "FAQ deleted successfully")
}

// teamMemberView adds the avatar initials shown when a member has no photo
type teamMemberView struct {
	models.TeamMember
	Initials string `json:"initials"`
}

func (h *Handler) GetTeams(c *gin.Context) {
	members, err := h.db.GetAllTeamMembers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to get team members")
		return
	}

	views := make([]teamMemberView, len(members))
	for i, m := range members {
		views[i] = teamMemberView{TeamMember: m, Initials: m.Initials()}
	}

	respondList(h, c, views, "Invalid pagination parameters")
}

func (h *Handler) CreateTeam(c *gin.Context) {
	var req models.TeamMemberRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err, "Invalid team member payload")
		return
	}

	member := &models.TeamMember{}
	req.Apply(member)
	if err := h.db.CreateTeamMember(c.Request.Context(), member); err != nil {
		h.fail(c, err, "Failed to create team member")
		return
	}
	respondMessage(c, http.StatusCreated, teamMemberView{TeamMember: *member, Initials: member.Initials()}, "Team member created successfully")
}

func (h *Handler) UpdateTeam(c *gin.Context) {
	var req models.TeamMemberRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err, "Invalid team member payload")
		return
	}

	ctx := c.Request.Context()
	member, err := h.db.GetTeamMemberByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get team member")
		return
	}

	req.Apply(member)
	if err := h.db.UpdateTeamMember(ctx, member); err != nil {
		h.fail(c, err, "Failed to update team member")
		return
	}
	respondMessage(c, http.StatusOK, teamMemberView{TeamMember: *member, Initials: member.Initials()}, "Team member updated successfully")
}

func (h *Handler) DeleteTeam(c *gin.Context) {
	if err := h.db.DeleteTeamMember(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete team member")
		return
	}
	respondMessage(c, http.StatusOK, nil, "Team member deleted successfully")
}

func (h *Handler) GetAllStatics(c *gin.Context) {
	statics, err := h.db.GetAllStatics(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to get static content")
		return
	}
	respond(c, http.StatusOK, statics)
}

func (h *Handler) GetStatic(c *gin.Context) {
	static, err := h.db.GetStaticByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get static content")
		return
	}
	respond(c, http.StatusOK, static)
}

func (h *Handler) UpdateStatic(c *gin.Context) {
	var req models.StaticContentRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err, "Invalid static content payload")
		return
	}

	static, err := h.db.UpdateStatic(c.Request.Context(), c.Param("id"), req.Updates())
	if err != nil {
		h.fail(c, err, "Failed to update static content")
		return
	}
	respondMessage(c, http.StatusOK, static, "Static content updated successfully")
}
