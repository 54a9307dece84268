package community

import (
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// ErrPartnerNotFound is returned for lookups of unknown partners.
var ErrPartnerNotFound = goerrors.New("partner not found", goerrors.CategoryNotFound).
	WithTextCode("PARTNER_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// PartnersController serves the partner directory.
type PartnersController struct {
	repo   RepositoryManager
	logger Logger
}

func NewPartnersController(repo RepositoryManager) *PartnersController {
	return &PartnersController{
		repo:   repo,
		logger: defLogger{},
	}
}

func (p *PartnersController) WithLogger(l Logger) *PartnersController {
	if l != nil {
		p.logger = l
	}
	return p
}

func (p *PartnersController) List(c router.Context) error {
	pager := NewPager(c.QueryInt("page", 1), c.QueryInt("limit", 20), 20)

	active := true
	if v, err := strconv.ParseBool(c.Query("is_active", "true")); err == nil {
		active = v
	}

	partners, total, err := p.repo.Partners().ListFiltered(c.Context(), active, pager)
	if err != nil {
		p.logger.Error("partners list failed", "error", err)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{
		"partners":   partners,
		"pagination": pager.Paginate(total),
	}, "")
}

func (p *PartnersController) Get(c router.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrPartnerNotFound)
	}

	partner, err := p.repo.Partners().GetByID(c.Context(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrPartnerNotFound)
		}
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"partner": partner}, "")
}

// PartnerPayload carries partner fields for create and update.
type PartnerPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	LogoURL     string `json:"logo_url"`
	IsActive    *bool  `json:"is_active"`
}

// Validate will validate the payload
func (r PartnerPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Description, validation.Required, validation.Length(1, 5000)),
		validation.Field(&r.Website, is.URL),
		validation.Field(&r.LogoURL, is.URL),
	)
}

func (r PartnerPayload) apply(partner *Partner) {
	partner.Name = r.Name
	partner.Description = r.Description
	partner.Website = r.Website
	partner.LogoURL = r.LogoURL
	if r.IsActive != nil {
		partner.IsActive = *r.IsActive
	}
}

func (p *PartnersController) Create(c router.Context) error {
	payload := new(PartnerPayload)
	if err := c.Bind(payload); err != nil {
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	partner := &Partner{
		ID:       uuid.New(),
		IsActive: true,
	}
	payload.apply(partner)

	created, err := p.repo.Partners().Create(c.Context(), partner)
	if err != nil {
		p.logger.Error("partner create failed", "error", err)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusCreated, map[string]any{"partner": created}, "Partner created successfully")
}

func (p *PartnersController) Update(c router.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrPartnerNotFound)
	}

	payload := new(PartnerPayload)
	if err := c.Bind(payload); err != nil {
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	partner, err := p.repo.Partners().GetByID(c.Context(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrPartnerNotFound)
		}
		return RespondError(c, err)
	}

	payload.apply(partner)

	updated, err := p.repo.Partners().Update(c.Context(), partner)
	if err != nil {
		p.logger.Error("partner update failed", "error", err, "partner_id", id.String())
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"partner": updated}, "Partner updated successfully")
}

func (p *PartnersController) Delete(c router.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrPartnerNotFound)
	}

	partner, err := p.repo.Partners().GetByID(c.Context(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrPartnerNotFound)
		}
		return RespondError(c, err)
	}

	if err := p.repo.Partners().Delete(c.Context(), partner); err != nil {
		p.logger.Error("partner delete failed", "error", err, "partner_id", id.String())
		return RespondError(c, err)
	}

	return RespondMessage(c, http.StatusOK, "Partner deleted successfully")
}
