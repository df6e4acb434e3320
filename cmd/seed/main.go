package main

import (
	"log"

	"gorm.io/gorm/clause"

	"github.com/aihub-dev/aihub_go_server/config"
	"github.com/aihub-dev/aihub_go_server/internal/database"
	"github.com/aihub-dev/aihub_go_server/internal/model"
)

// 模型目录预置数据，model_id 冲突时更新其余字段
var catalog = []model.AIModel{
	{
		Name:        "Gemini Pro",
		Description: "Google's flagship text model for general reasoning and chat",
		Type:        model.ModelTypeText,
		Tier:        model.TierPremium,
		Provider:    "gemini",
		ModelID:     "gemini-pro",
		IsActive:    true,
	},
	{
		Name:        "Mixtral 8x7B",
		Description: "Fast open-weights mixture-of-experts model served by Groq",
		Type:        model.ModelTypeText,
		Tier:        model.TierFree,
		Provider:    "groq",
		ModelID:     "mixtral-8x7b-32768",
		IsActive:    true,
	},
	{
		Name:        "Llama 3 70B",
		Description: "Meta's large open-weights model served by Groq",
		Type:        model.ModelTypeText,
		Tier:        model.TierPremium,
		Provider:    "groq",
		ModelID:     "llama3-70b-8192",
		IsActive:    true,
	},
	{
		Name:        "Claude 3 Opus",
		Description: "Anthropic's most capable text model, billed per call",
		Type:        model.ModelTypeText,
		Tier:        model.TierUltraPremium,
		Provider:    "anthropic",
		ModelID:     "claude-3-opus-20240229",
		IsActive:    true,
	},
	{
		Name:        "DALL-E 3",
		Description: "OpenAI's image generation model",
		Type:        model.ModelTypeImage,
		Tier:        model.TierPremium,
		Provider:    "openai",
		ModelID:     "dall-e-3",
		IsActive:    true,
	},
	{
		Name:        "Stable Diffusion XL",
		Description: "Stability AI's open image generation model",
		Type:        model.ModelTypeImage,
		Tier:        model.TierFree,
		Provider:    "stability",
		ModelID:     "stable-diffusion-xl-1024-v1-0",
		IsActive:    true,
	},
	{
		Name:        "Midjourney",
		Description: "High quality stylized image generation",
		Type:        model.ModelTypeImage,
		Tier:        model.TierPremium,
		Provider:    "midjourney",
		ModelID:     "midjourney-v6",
		IsActive:    false, // 尚未接入 API
	},
	{
		Name:        "Sora",
		Description: "OpenAI's text-to-video model, billed per call",
		Type:        model.ModelTypeVideo,
		Tier:        model.TierUltraPremium,
		Provider:    "openai",
		ModelID:     "sora-1.0",
		IsActive:    true,
	},
	{
		Name:        "Gen-2",
		Description: "Runway's text-to-video generation model",
		Type:        model.ModelTypeVideo,
		Tier:        model.TierPremium,
		Provider:    "runway",
		ModelID:     "gen-2",
		IsActive:    true,
	},
}

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	for _, m := range catalog {
		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "model_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "type", "tier", "provider", "is_active",
			}),
		}).Create(&m).Error
		if err != nil {
			log.Fatalf("Failed to seed model %s: %v", m.ModelID, err)
		}
		log.Printf("Seeded model %s (%s/%s)", m.Name, m.Tier, m.Type)
	}

	log.Printf("Model catalog seeded, %d entries", len(catalog))
}
