package models

// Category agrupa productos; Order define el orden de visualización
type Category struct {
	ID          string `json:"id" bson:"id" yaml:"id"`
	Name        string `json:"name" bson:"name" yaml:"name" binding:"required"`
	Slug        string `json:"slug" bson:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" bson:"description,omitempty" yaml:"description"`
	IconURL     string `json:"iconUrl,omitempty" bson:"iconUrl,omitempty" yaml:"iconUrl"`
	Order       int    `json:"order" bson:"order" yaml:"order"`
	IsVisible   bool   `json:"isVisible" bson:"isVisible" yaml:"isVisible"`
}

// SocialLink es un enlace de contacto mostrado en la tienda
type SocialLink struct {
	ID       string `json:"id" bson:"id" yaml:"id"`
	Platform string `json:"platform" bson:"platform" yaml:"platform" binding:"required"`
	URL      string `json:"url" bson:"url" yaml:"url"`
	IconName string `json:"iconName" bson:"iconName" yaml:"iconName"`
	Handle   string `json:"handle,omitempty" bson:"handle,omitempty" yaml:"handle"`
	Order    int    `json:"order" bson:"order" yaml:"order"`
}

// SiteConfig es el documento único de configuración del sitio
type SiteConfig struct {
	SiteName    string      `json:"siteName" bson:"siteName" yaml:"siteName"`
	Tagline     string      `json:"tagline,omitempty" bson:"tagline,omitempty" yaml:"tagline"`
	LogoURL     string      `json:"logoUrl,omitempty" bson:"logoUrl,omitempty" yaml:"logoUrl"`
	BannerURL   string      `json:"bannerUrl,omitempty" bson:"bannerUrl,omitempty" yaml:"bannerUrl"`
	Notices     []string    `json:"notices" bson:"notices" yaml:"notices"`
	ContactInfo ContactInfo `json:"contactInfo" bson:"contactInfo" yaml:"contactInfo"`
}

type ContactInfo struct {
	Email   string `json:"email,omitempty" bson:"email,omitempty" yaml:"email"`
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty" yaml:"phone"`
	Address string `json:"address,omitempty" bson:"address,omitempty" yaml:"address"`
}
