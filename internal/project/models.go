package project

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"noxsub/internal/caption"
)

// Project is one captioning workspace: a video plus its caption set, style,
// and transcription preferences, persisted between invocations.
type Project struct {
	ID            int64
	Title         string
	VideoPath     string
	VideoFilename string
	Duration      float64
	Language      string
	Model         string
	CaptionsJSON  string
	StyleJSON     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Captions decodes the stored caption set. A project with no stored captions
// yields an empty slice.
func (p *Project) Captions() ([]caption.Caption, error) {
	if strings.TrimSpace(p.CaptionsJSON) == "" {
		return nil, nil
	}
	var captions []caption.Caption
	if err := json.Unmarshal([]byte(p.CaptionsJSON), &captions); err != nil {
		return nil, fmt.Errorf("decode captions for project %d: %w", p.ID, err)
	}
	return captions, nil
}

// SetCaptions replaces the stored caption set wholesale.
func (p *Project) SetCaptions(captions []caption.Caption) error {
	if captions == nil {
		captions = []caption.Caption{}
	}
	data, err := json.Marshal(captions)
	if err != nil {
		return fmt.Errorf("encode captions: %w", err)
	}
	p.CaptionsJSON = string(data)
	return nil
}

// Style decodes the stored caption style, falling back to the defaults when
// none has been saved yet.
func (p *Project) Style() (caption.Style, error) {
	if strings.TrimSpace(p.StyleJSON) == "" {
		return caption.DefaultStyle(), nil
	}
	var style caption.Style
	if err := json.Unmarshal([]byte(p.StyleJSON), &style); err != nil {
		return caption.Style{}, fmt.Errorf("decode style for project %d: %w", p.ID, err)
	}
	return style, nil
}

// SetStyle replaces the stored style wholesale. Partial updates are not a
// thing: callers build the complete style first.
func (p *Project) SetStyle(style caption.Style) error {
	data, err := json.Marshal(style)
	if err != nil {
		return fmt.Errorf("encode style: %w", err)
	}
	p.StyleJSON = string(data)
	return nil
}
