package systemsetting

import "time"

type UpsertSettingRequest struct {
	Key          string   `json:"key" binding:"omitempty,max=100"`
	IntValue     *int     `json:"int_value"`
	DecimalValue *float64 `json:"decimal_value"`
	TextValue    string   `json:"text_value"`
	Description  string   `json:"description" binding:"max=500"`
}

type SettingResponse struct {
	ID           string    `json:"id"`
	Key          string    `json:"key"`
	IntValue     *int      `json:"int_value,omitempty"`
	DecimalValue *float64  `json:"decimal_value,omitempty"`
	TextValue    string    `json:"text_value,omitempty"`
	Description  string    `json:"description"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toResponse(s SystemSetting) SettingResponse {
	return SettingResponse{
		ID:           s.ID.String(),
		Key:          s.Key,
		IntValue:     s.IntValue,
		DecimalValue: s.DecimalValue,
		TextValue:    s.TextValue,
		Description:  s.Description,
		UpdatedAt:    s.UpdatedAt,
	}
}
