package parse

import (
	"testing"
)

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single tagged block",
			input: "Here you go:\n```javascript\nfunction add(a, b) { return a + b; }\n```\nEnjoy.",
			want:  "function add(a, b) { return a + b; }",
		},
		{
			name:  "two blocks joined by blank line",
			input: "```js\nconst a = 1;\n```\nand\n```js\nconst b = 2;\n```",
			want:  "const a = 1;\n\nconst b = 2;",
		},
		{
			name:  "untagged block",
			input: "```\n  print('hi')  \n```",
			want:  "print('hi')",
		},
		{
			name:  "no block returns trimmed text",
			input: "  x := 1\n",
			want:  "x := 1",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: " \n\t ",
			want:  "",
		},
		{
			name:  "unterminated fence is not a block",
			input: "```go\nfunc main() {",
			want:  "```go\nfunc main() {",
		},
		{
			name:  "complete block before unterminated one",
			input: "```go\na := 1\n```\n```go\nb :=",
			want:  "a := 1",
		},
		{
			name:  "block body keeps inner newlines",
			input: "```python\ndef f():\n    return 1\n```",
			want:  "def f():\n    return 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCode(tt.input); got != tt.want {
				t.Errorf("ExtractCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractCode_Idempotent(t *testing.T) {
	inputs := []string{
		"```js\nconst a = 1;\n```\n```js\nconst b = 2;\n```",
		"plain text answer",
		"",
	}
	for _, input := range inputs {
		first := ExtractCode(input)
		second := ExtractCode(input)
		if first != second {
			t.Errorf("ExtractCode not stable for %q: %q vs %q", input, first, second)
		}
	}
}

func TestCodeBlocks(t *testing.T) {
	blocks := CodeBlocks("intro\n```go\nfmt.Println(1)\n```\ntext\n```\nraw\n```")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Language != "go" || blocks[0].Body != "fmt.Println(1)" {
		t.Errorf("unexpected first block %+v", blocks[0])
	}
	if blocks[1].Language != "" || blocks[1].Body != "raw" {
		t.Errorf("unexpected second block %+v", blocks[1])
	}

	if got := CodeBlocks("no fences here"); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestHasUnclosedFence(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"no code", false},
		{"```go\nx\n```", false},
		{"```go\nx", true},
		{"```a```\n```b", true},
		{"```python\nprint(1)```", false},
		{"````md\nuse ``` for fences\n````", false},
		{"```go\ns := \"```\"\n```", false},
		{"```go\ns := \"```\"", true},
		{"  ```js\n  f()\n  ```\n", false},
	}
	for _, tt := range tests {
		if got := HasUnclosedFence(tt.input); got != tt.want {
			t.Errorf("HasUnclosedFence(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
