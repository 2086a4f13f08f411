// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/firmsite/internal/auth"
	"github.com/olegiv/firmsite/internal/content"
	"github.com/olegiv/firmsite/internal/middleware"
	"github.com/olegiv/firmsite/internal/model"
	"github.com/olegiv/firmsite/internal/render"
	"github.com/olegiv/firmsite/internal/service"
	"github.com/olegiv/firmsite/internal/store"
)

// FrontendHandler serves the public website.
type FrontendHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	resolver     *content.Resolver
	eventService *service.EventService
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer, resolver *content.Resolver) *FrontendHandler {
	return &FrontendHandler{
		queries:      store.New(db),
		renderer:     renderer,
		resolver:     resolver,
		eventService: service.NewEventService(db),
	}
}

// render resolves the public content and renders a page. Content failures
// degrade to the built-in defaults.
func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data render.TemplateData) {
	data.Content = h.resolver.Lookup(r.Context())
	data.User = middleware.GetUser(r)
	renderPage(w, r, h.renderer, status, name, data)
}

// Home renders the landing page.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	type area struct{ Title, Summary string }
	areas := make([]area, 0, homePracticeAreas)
	for _, pa := range practiceAreas[:homePracticeAreas] {
		areas = append(areas, area{Title: pa.Title, Summary: pa.Summary})
	}

	h.render(w, r, http.StatusOK, "pages/home", render.TemplateData{
		Description: "Aggressive personal injury attorneys. No fee unless we win.",
		Data: map[string]any{
			"TrustBadges":   trustBadges,
			"Results":       headlineResults,
			"PracticeAreas": areas,
			"Featured":      featuredTestimonial,
			"WhyChooseUs":   whyChooseUs,
			"FAQs":          faqs,
		},
	})
}

// About renders the firm and attorney page.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "pages/about", render.TemplateData{
		Title:       "About Our Firm",
		Description: "Former insurance defense attorneys fighting for injury victims.",
		Data: map[string]any{
			"Credentials": credentials,
			"Story":       content.AboutAttorneyDescription,
			"Values":      firmValues,
			"Process":     process,
			"Trust":       trustPoints,
		},
	})
}

// Services renders the practice areas page.
func (h *FrontendHandler) Services(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "pages/services", render.TemplateData{
		Title:       "Practice Areas",
		Description: "Car, truck and motorcycle accidents, slip and fall, wrongful death, medical malpractice and workplace injuries.",
		Data:        map[string]any{"PracticeAreas": practiceAreas},
	})
}

// Testimonials renders case results and client stories.
func (h *FrontendHandler) Testimonials(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "pages/testimonials", render.TemplateData{
		Title:       "Case Results & Testimonials",
		Description: "Settlements and verdicts we have won for our clients.",
		Data: map[string]any{
			"Results":      caseResults,
			"Testimonials": testimonials,
		},
	})
}

// Contact renders the case review form.
func (h *FrontendHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.renderContact(w, r, http.StatusOK, r.URL.Query().Get("submitted") == "1", nil, nil)
}

func (h *FrontendHandler) renderContact(w http.ResponseWriter, r *http.Request, status int, submitted bool, form, errs map[string]string) {
	h.render(w, r, status, "pages/contact", render.TemplateData{
		Title:       "Free Case Evaluation",
		Description: "Tell us what happened. An attorney will review your case within 24 hours.",
		Data: map[string]any{
			"Submitted":   submitted,
			"InjuryTypes": model.InjuryTypes,
		},
		Form:   form,
		Errors: errs,
	})
}

// SubmitContact validates and stores a case review request.
// POST /contact
func (h *FrontendHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderContact(w, r, http.StatusBadRequest, false, nil, map[string]string{"form": "Invalid form data"})
		return
	}

	form := map[string]string{
		"name":        strings.TrimSpace(r.PostFormValue("name")),
		"email":       strings.TrimSpace(r.PostFormValue("email")),
		"phone":       strings.TrimSpace(r.PostFormValue("phone")),
		"injury_type": r.PostFormValue("injury_type"),
		"message":     strings.TrimSpace(r.PostFormValue("message")),
	}

	if errs := validateInquiry(form); len(errs) > 0 {
		h.renderContact(w, r, http.StatusUnprocessableEntity, false, form, errs)
		return
	}

	clientIP := middleware.ClientIP(r)
	inquiry, err := h.queries.CreateCaseInquiry(r.Context(), store.CreateCaseInquiryParams{
		Name:       form["name"],
		Email:      form["email"],
		Phone:      form["phone"],
		InjuryType: form["injury_type"],
		Message:    form["message"],
		IpAddress:  clientIP,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to store case inquiry", "error", err)
		h.renderContact(w, r, http.StatusInternalServerError, false, form, map[string]string{
			"form": "We could not submit your case. Please call us instead.",
		})
		return
	}

	_ = h.eventService.LogEvent(r.Context(), model.EventLevelInfo, model.EventCategoryInquiry, "Case inquiry received", "", clientIP, map[string]any{
		"inquiry_id":  inquiry.ID,
		"injury_type": inquiry.InjuryType,
	})

	http.Redirect(w, r, redirectContact+"?submitted=1", http.StatusSeeOther)
}

// validateInquiry returns the field errors for a case review form, keyed by
// form field.
func validateInquiry(form map[string]string) map[string]string {
	errs := map[string]string{}

	switch name := form["name"]; {
	case name == "":
		errs["name"] = "Name is required"
	case utf8.RuneCountInString(name) > model.InquiryNameMax:
		errs["name"] = fmt.Sprintf("Name must be less than %d characters", model.InquiryNameMax)
	}

	switch email := form["email"]; {
	case utf8.RuneCountInString(email) > model.InquiryEmailMax:
		errs["email"] = fmt.Sprintf("Email must be less than %d characters", model.InquiryEmailMax)
	case auth.ValidateEmail(email) != nil:
		errs["email"] = "Please enter a valid email address"
	}

	switch phone := form["phone"]; {
	case phone == "":
		errs["phone"] = "Phone number is required"
	case utf8.RuneCountInString(phone) > model.InquiryPhoneMax:
		errs["phone"] = fmt.Sprintf("Phone number must be less than %d characters", model.InquiryPhoneMax)
	}

	if !model.IsInjuryType(form["injury_type"]) {
		errs["injury_type"] = "Please select an injury type"
	}

	switch msg := form["message"]; {
	case msg == "":
		errs["message"] = "Please describe your situation"
	case utf8.RuneCountInString(msg) > model.InquiryMessageMax:
		errs["message"] = fmt.Sprintf("Message must be less than %d characters", model.InquiryMessageMax)
	}

	return errs
}

// NotFound renders the 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	slog.InfoContext(r.Context(), "404 error: non-existent route", "path", r.URL.Path)
	h.render(w, r, http.StatusNotFound, "pages/404", render.TemplateData{Title: "Page Not Found"})
}
