package v1

import "github.com/shenikar/emergency_reporting_system/internal/models"

// DTOToIncidentModel преобразует DTO создания в доменную модель.
// Значения перечислений уже проверены валидатором.
func DTOToIncidentModel(dto CreateIncidentRequest) *models.Incident {
	return &models.Incident{
		Category:      models.Category(dto.Type),
		Description:   dto.Description,
		Location:      dto.Location,
		ResponderType: models.ResponderType(dto.ResponderType),
		Severity:      models.Severity(dto.Severity),
		IsAnonymous:   dto.IsAnonymous,
	}
}

// DTOToIncidentPatch преобразует DTO обновления в частичное обновление
func DTOToIncidentPatch(dto UpdateIncidentRequest) models.IncidentPatch {
	patch := models.IncidentPatch{
		Description: dto.Description,
		Location:    dto.Location,
		IsAnonymous: dto.IsAnonymous,
	}
	if dto.Type != nil {
		c := models.Category(*dto.Type)
		patch.Category = &c
	}
	if dto.ResponderType != nil {
		r := models.ResponderType(*dto.ResponderType)
		patch.ResponderType = &r
	}
	if dto.Severity != nil {
		s := models.Severity(*dto.Severity)
		patch.Severity = &s
	}
	if dto.Status != nil {
		s := models.Status(*dto.Status)
		patch.Status = &s
	}
	return patch
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа.
// Владелец анонимного отчета не раскрывается.
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:            model.ID,
		Type:          string(model.Category),
		TypeLabel:     model.Category.Label(),
		Description:   model.Description,
		Location:      model.Location,
		ResponderType: string(model.ResponderType),
		Severity:      string(model.Severity),
		Status:        string(model.Status),
		UserID:        model.VisibleOwnerID(),
		IsAnonymous:   model.IsAnonymous,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
		ResolvedAt:    model.ResolvedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

func ModelToIdentityResponse(identity *models.Identity) *IdentityResponse {
	return &IdentityResponse{
		ID:         identity.ID,
		Name:       identity.Name,
		Email:      identity.Email,
		Role:       string(identity.Role),
		Phone:      identity.Phone,
		Department: identity.Department,
	}
}

func StatsToResponse(stats *models.IncidentStats) StatsResponse {
	resp := StatsResponse{
		Total:      stats.Total,
		ByStatus:   make(map[string]int, len(stats.ByStatus)),
		BySeverity: make(map[string]int, len(stats.BySeverity)),
	}
	for k, v := range stats.ByStatus {
		resp.ByStatus[string(k)] = v
	}
	for k, v := range stats.BySeverity {
		resp.BySeverity[string(k)] = v
	}
	return resp
}

func buildCatalog() CatalogResponse {
	var catalog CatalogResponse
	for _, c := range models.Categories() {
		catalog.Types = append(catalog.Types, CatalogEntry{Value: string(c), Label: c.Label()})
	}
	for _, r := range models.ResponderTypes() {
		catalog.ResponderTypes = append(catalog.ResponderTypes, CatalogEntry{Value: string(r), Label: r.Label()})
	}
	for _, s := range models.Severities() {
		catalog.Severities = append(catalog.Severities, CatalogEntry{Value: string(s)})
	}
	for _, s := range models.Statuses() {
		catalog.Statuses = append(catalog.Statuses, CatalogEntry{Value: string(s)})
	}
	return catalog
}
