// Package registry holds the static metadata for the models the studio
// offers out of the box. Display data lives here; the actual input
// parameters always come from the provider's schema via catalog sync.
package registry

import "github.com/radoslav1992/creative-studio/internal/domain"

// Entry describes one known provider model.
type Entry struct {
	ExternalID    string
	Name          string
	Provider      string
	ProviderColor string
	Description   string
	Category      domain.ModelCategory
	Capabilities  []string
	Badge         string
	SortOrder     int
}

// Entries lists every model bulk sync keeps in the catalog, ordered per
// category by SortOrder.
var Entries = []Entry{
	// Video
	{
		ExternalID:    "google/veo-3",
		Name:          "Veo 3",
		Provider:      "Google",
		ProviderColor: "#4285F4",
		Description:   "Google's flagship video model with native audio. Cinematic clips with natural sound.",
		Category:      domain.CategoryVideo,
		Capabilities:  []string{domain.CapTextToVideo, domain.CapImageToVideo},
		Badge:         "Popular",
		SortOrder:     0,
	},
	{
		ExternalID:    "google/veo-3.1",
		Name:          "Veo 3.1",
		Provider:      "Google",
		ProviderColor: "#4285F4",
		Description:   "Improved Veo 3 with contextual audio, reference images and last-frame support.",
		Category:      domain.CategoryVideo,
		Capabilities:  []string{domain.CapTextToVideo, domain.CapImageToVideo},
		Badge:         "New",
		SortOrder:     1,
	},
	{
		ExternalID:    "google/veo-3-fast",
		Name:          "Veo 3 Fast",
		Provider:      "Google",
		ProviderColor: "#4285F4",
		Description:   "Faster, cheaper Veo 3. Generates video with built-in audio quickly.",
		Category:      domain.CategoryVideo,
		Capabilities:  []string{domain.CapTextToVideo, domain.CapImageToVideo},
		Badge:         "Fast",
		SortOrder:     2,
	},
	{
		ExternalID:    "google/veo-2",
		Name:          "Veo 2",
		Provider:      "Google",
		ProviderColor: "#4285F4",
		Description:   "Video generation with realistic motion at up to 4K quality.",
		Category:      domain.CategoryVideo,
		Capabilities:  []string{domain.CapTextToVideo, domain.CapImageToVideo},
		SortOrder:     3,
	},
	{
		ExternalID:    "openai/sora-2-pro",
		Name:          "Sora 2 Pro",
		Provider:      "OpenAI",
		ProviderColor: "#10a37f",
		Description:   "OpenAI's most advanced video generation model. Cinematic quality.",
		Category:      domain.CategoryVideo,
		Capabilities:  []string{domain.CapTextToVideo, domain.CapImageToVideo},
		Badge:         "Premium",
		SortOrder:     4,
	},
	{
		ExternalID:    "openai/sora-2",
		Name:          "Sora 2",
		Provider:      "OpenAI",
		ProviderColor: "#10a37f",
		Description:   "OpenAI's flagship model for video generation from text or images.",
		Category:      domain.CategoryVideo,
		Capabilities:  []string{domain.CapTextToVideo, domain.CapImageToVideo},
		SortOrder:     5,
	},
	{
		ExternalID:    "kwaivgi/kling-v2.5-turbo-pro",
		Name:          "Kling v2.5 Turbo Pro",
		Provider:      "Kuaishou",
		ProviderColor: "#FF6B35",
		Description:   "Professional video with smooth motion and cinematic depth.",
		Category:      domain.CategoryVideo,
		Capabilities:  []string{domain.CapTextToVideo, domain.CapImageToVideo},
		Badge:         "Top pick",
		SortOrder:     6,
	},
	{
		ExternalID:    "kwaivgi/kling-v2.1",
		Name:          "Kling v2.1",
		Provider:      "Kuaishou",
		ProviderColor: "#FF6B35",
		Description:   "5 and 10 second clips in 720p and 1080p from a start image.",
		Category:      domain.CategoryVideo,
		Capabilities:  []string{domain.CapImageToVideo},
		SortOrder:     7,
	},

	// Image
	{
		ExternalID:    "google/imagen-4",
		Name:          "Imagen 4",
		Provider:      "Google",
		ProviderColor: "#4285F4",
		Description:   "Google's flagship image model. Fine detail across diverse styles.",
		Category:      domain.CategoryImage,
		Capabilities:  []string{domain.CapTextToImage},
		Badge:         "Popular",
		SortOrder:     0,
	},
	{
		ExternalID:    "google/imagen-4-ultra",
		Name:          "Imagen 4 Ultra",
		Provider:      "Google",
		ProviderColor: "#4285F4",
		Description:   "Imagen 4 tuned for quality over speed.",
		Category:      domain.CategoryImage,
		Capabilities:  []string{domain.CapTextToImage},
		Badge:         "Premium",
		SortOrder:     1,
	},
	{
		ExternalID:    "google/imagen-4-fast",
		Name:          "Imagen 4 Fast",
		Provider:      "Google",
		ProviderColor: "#4285F4",
		Description:   "Imagen 4 tuned for speed over quality.",
		Category:      domain.CategoryImage,
		Capabilities:  []string{domain.CapTextToImage},
		Badge:         "Fast",
		SortOrder:     2,
	},
	{
		ExternalID:    "google/nano-banana-pro",
		Name:          "Nano Banana Pro",
		Provider:      "Google",
		ProviderColor: "#4285F4",
		Description:   "Image generation and editing. Up to 14 input images and 4K output.",
		Category:      domain.CategoryImage,
		Capabilities:  []string{domain.CapTextToImage, domain.CapImageEditing},
		Badge:         "Editing",
		SortOrder:     3,
	},
	{
		ExternalID:    "google/nano-banana",
		Name:          "Nano Banana",
		Provider:      "Google",
		ProviderColor: "#4285F4",
		Description:   "Multimodal image generation and editing in Gemini 2.5.",
		Category:      domain.CategoryImage,
		Capabilities:  []string{domain.CapTextToImage, domain.CapImageEditing},
		Badge:         "Editing",
		SortOrder:     4,
	},
	{
		ExternalID:    "openai/gpt-image-1.5",
		Name:          "GPT Image 1.5",
		Provider:      "OpenAI",
		ProviderColor: "#10a37f",
		Description:   "Image generation and editing with precise instruction following.",
		Category:      domain.CategoryImage,
		Capabilities:  []string{domain.CapTextToImage, domain.CapImageEditing},
		Badge:         "New",
		SortOrder:     5,
	},
	{
		ExternalID:    "ideogram-ai/ideogram-character",
		Name:          "Ideogram Character",
		Provider:      "Ideogram",
		ProviderColor: "#E040FB",
		Description:   "Consistent characters from a single reference image. Styles and inpainting.",
		Category:      domain.CategoryImage,
		Capabilities:  []string{domain.CapCharacterConsistency, domain.CapImageEditing},
		Badge:         "Characters",
		SortOrder:     6,
	},
	{
		ExternalID:    "ideogram-ai/ideogram-v3-quality",
		Name:          "Ideogram v3 Quality",
		Provider:      "Ideogram",
		ProviderColor: "#E040FB",
		Description:   "Ideogram v3 at its highest quality. Realism and creative designs.",
		Category:      domain.CategoryImage,
		Capabilities:  []string{domain.CapTextToImage},
		Badge:         "Premium",
		SortOrder:     7,
	},
	{
		ExternalID:    "ideogram-ai/ideogram-v3-turbo",
		Name:          "Ideogram v3 Turbo",
		Provider:      "Ideogram",
		ProviderColor: "#E040FB",
		Description:   "The fastest Ideogram v3. Realism at maximum speed.",
		Category:      domain.CategoryImage,
		Capabilities:  []string{domain.CapTextToImage},
		Badge:         "Fast",
		SortOrder:     8,
	},
}

// Find returns the entry for externalID, or nil when the model is not part
// of the built-in registry.
func Find(externalID string) *Entry {
	for i := range Entries {
		if Entries[i].ExternalID == externalID {
			return &Entries[i]
		}
	}
	return nil
}
