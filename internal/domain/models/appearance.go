package models

// MaxTooltipLength bounds the badge tooltip text.
const MaxTooltipLength = 200

// AppearanceSettings configures the badge a promotion shows in the CRM chessboard.
type AppearanceSettings struct {
	ActiveInCRM      bool   `json:"activeInCrm"`
	BadgeText        string `json:"badgeText" binding:"max=64"`
	BadgeTooltipText string `json:"badgeTooltipText" binding:"max=200"`
	BgColor          string `json:"bgColor" binding:"omitempty,hexcolor"`
	TextColor        string `json:"textColor" binding:"omitempty,hexcolor"`
	FontSize         int    `json:"fontSize" binding:"min=0,max=72"`
	BadgeHeight      int    `json:"badgeHeight" binding:"min=0,max=200"`
	Bold             bool   `json:"isBold"`
	BorderRadius     int    `json:"borderRadius" binding:"min=0,max=100"`
	TooltipTextColor string `json:"tooltipTextColor" binding:"omitempty,hexcolor"`
}

// DefaultAppearance is what a promotion's badge editor opens with the first time.
func DefaultAppearance() AppearanceSettings {
	return AppearanceSettings{
		ActiveInCRM:      true,
		BadgeText:        "Квартира месяца",
		BadgeTooltipText: "Специальное предложение от застройщика при покупке в ипотеку",
		BgColor:          "#5577BB",
		TextColor:        "#FFFFFF",
		FontSize:         14,
		BadgeHeight:      36,
		Bold:             true,
		BorderRadius:     0,
		TooltipTextColor: "#666666",
	}
}
