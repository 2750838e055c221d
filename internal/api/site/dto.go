package siteapi

import (
	"quickfeedback/config"
	"quickfeedback/internal/domain/site"
)

type CreateSiteRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	URL  string `json:"url" binding:"required"`
}

type UpdateSiteRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=200"`
	URL  *string `json:"url"`
}

type SiteDTO struct {
	site.Site
	EmbedCode string `json:"embed_code"`
}

func toDTO(s site.Site) SiteDTO {
	base := config.Cfg.APIURL
	if base == "" {
		base = config.Cfg.AppURL
	}
	return SiteDTO{Site: s, EmbedCode: site.EmbedSnippet(base, s, site.EmbedOptions{})}
}
