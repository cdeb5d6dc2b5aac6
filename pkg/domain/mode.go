package domain

import (
	"fmt"
	"strings"
)

// Mode は生成 (generate) と変換 (edit) の排他的なワークフローを表します。
type Mode string

const (
	ModeGenerate Mode = "generate"
	ModeEdit     Mode = "edit"
)

// ParseMode は文字列を Mode に変換します。未知の値はエラーです。
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeGenerate:
		return ModeGenerate, nil
	case ModeEdit:
		return ModeEdit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// AspectRatio は generate モードで選択できるアスペクト比です。
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
	AspectStandard  AspectRatio = "4:3"
	AspectTall      AspectRatio = "3:4"

	DefaultAspectRatio = AspectSquare
)

var aspectLabels = map[AspectRatio]string{
	AspectSquare:    "Square (1:1) - Instagram Post, Passport",
	AspectLandscape: "Landscape (16:9) - YouTube, Facebook Cover",
	AspectPortrait:  "Portrait (9:16) - Instagram Story, TikTok",
	AspectStandard:  "Standard Photo (4:3)",
	AspectTall:      "Tall Photo (3:4) - Pinterest",
}

// AspectRatios はセレクタの表示順でアスペクト比を返します。
func AspectRatios() []AspectRatio {
	return []AspectRatio{AspectSquare, AspectLandscape, AspectPortrait, AspectStandard, AspectTall}
}

// ParseAspectRatio は文字列を AspectRatio に変換します。
func ParseAspectRatio(s string) (AspectRatio, error) {
	r := AspectRatio(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAspectRatio, s)
	}
	return r, nil
}

// Valid は 5 種類の固定値のいずれかであるかを返します。
func (r AspectRatio) Valid() bool {
	_, ok := aspectLabels[r]
	return ok
}

// Label はセレクタに表示する説明文です。
func (r AspectRatio) Label() string {
	return aspectLabels[r]
}
