package ui

import (
	"reflect"
	"testing"
)

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		name     string
		r        rune
		expected int
	}{
		{"ASCII letter", 'A', 1},
		{"ASCII space", ' ', 1},
		{"Chinese character", '开', 2},
		{"Fullwidth question mark", '？', 2},
		{"Combining acute", '\u0301', 0},
		{"Tab", '\t', 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RuneWidth(tt.r)
			if got != tt.expected {
				t.Errorf("RuneWidth(%q) = %d, want %d", tt.r, got, tt.expected)
			}
		})
	}
}

func TestStringWidth(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"hello", 5},
		{"开始", 4},
		{"条件判断?", 9},
	}

	for _, tt := range tests {
		if got := StringWidth(tt.input); got != tt.expected {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		input    string
		maxWidth int
		expected string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"开始流程", 5, "开始"},
		{"开始流程", 4, "开始"},
		{"hello", 0, ""},
	}

	for _, tt := range tests {
		if got := TruncateToWidth(tt.input, tt.maxWidth); got != tt.expected {
			t.Errorf("TruncateToWidth(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
		}
	}
}

func TestTruncateToWidthWithEllipsis(t *testing.T) {
	tests := []struct {
		input    string
		maxWidth int
		expected string
	}{
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"流程步骤", 5, "流程…"},
		{"hello", 1, "h"},
	}

	for _, tt := range tests {
		if got := TruncateToWidthWithEllipsis(tt.input, tt.maxWidth); got != tt.expected {
			t.Errorf("TruncateToWidthWithEllipsis(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
		}
	}
}

func TestPadAndCenter(t *testing.T) {
	if got := PadStringToWidth("开", 4); got != "开  " {
		t.Errorf("PadStringToWidth = %q", got)
	}
	if got := PadStringToWidth("hello", 3); got != "hello" {
		t.Errorf("PadStringToWidth should not cut, got %q", got)
	}
	if got := CenterOffset("开始", 10); got != 3 {
		t.Errorf("CenterOffset = %d, want 3", got)
	}
	if got := CenterOffset("too wide", 4); got != 0 {
		t.Errorf("CenterOffset = %d, want 0", got)
	}
}

func TestWrapToWidth(t *testing.T) {
	tests := []struct {
		input    string
		maxWidth int
		expected []string
	}{
		{"short", 10, []string{"short"}},
		{"check the order", 9, []string{"check the", "order"}},
		{"流程步骤一二", 4, []string{"流程", "步骤", "一二"}},
		{"a\nb", 5, []string{"a", "b"}},
		{"abcdef", 3, []string{"abc", "def"}},
		{"开", 1, []string{"开"}},
	}

	for _, tt := range tests {
		got := WrapToWidth(tt.input, tt.maxWidth)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("WrapToWidth(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
		}
	}
}

func TestColumnToRuneIndex(t *testing.T) {
	tests := []struct {
		input    string
		col      int
		expected int
	}{
		{"hello", 0, 0},
		{"hello", 3, 3},
		{"开始", 2, 1},
		{"开始", 1, 1},
		{"开始", 9, 2},
	}

	for _, tt := range tests {
		if got := ColumnToRuneIndex(tt.input, tt.col); got != tt.expected {
			t.Errorf("ColumnToRuneIndex(%q, %d) = %d, want %d", tt.input, tt.col, got, tt.expected)
		}
	}
}
