package softgpu

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fosdem/trimix/lib/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// The software driver does not execute GLSL. It checks the source for the
// structural errors a real compiler would reject and extracts the two things
// it needs to rasterise: the location of the position attribute and the
// constant colour written by the fragment stage.

var (
	lineComment  = regexp.MustCompile(`//[^\n]*`)
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	mainFunc     = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(void)?\s*\)`)
	positionIn   = regexp.MustCompile(`layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*in\s+vec[234]\s+\w+\s*;`)
	plainIn      = regexp.MustCompile(`(?m)^\s*in\s+vec[234]\s+\w+\s*;`)
	fragOut      = regexp.MustCompile(`\bout\s+vec4\s+(\w+)\s*;`)
)

type compileResult struct {
	ok       bool
	log      string
	position int
	colour   mgl32.Vec4
}

func compileGLSL(kind gpu.ShaderType, source string) compileResult {
	res := compileResult{position: -1, colour: mgl32.Vec4{1, 1, 1, 1}}

	text := blockComment.ReplaceAllStringFunc(source, func(s string) string {
		// keep line numbers stable
		return strings.Repeat("\n", strings.Count(s, "\n"))
	})
	text = lineComment.ReplaceAllString(text, "")

	if err := checkVersion(text); err != "" {
		res.log = err
		return res
	}
	body := stripDirectives(text)

	if err := checkDelimiters(body); err != "" {
		res.log = err
		return res
	}
	if err := checkStatements(body); err != "" {
		res.log = err
		return res
	}
	if !mainFunc.MatchString(body) {
		res.log = "error: no function with name 'main'"
		return res
	}

	switch kind {
	case gpu.VertexShader:
		if m := positionIn.FindStringSubmatch(body); m != nil {
			loc, _ := strconv.Atoi(m[1])
			res.position = loc
		} else if plainIn.MatchString(body) {
			res.position = 0
		}
	case gpu.FragmentShader:
		m := fragOut.FindStringSubmatch(body)
		if m == nil {
			res.log = "error: fragment shader does not declare a vec4 output"
			return res
		}
		if c, ok := constantColour(body, m[1]); ok {
			res.colour = c
		}
	default:
		res.log = fmt.Sprintf("error: unsupported shader type %d", kind)
		return res
	}

	res.ok = true
	return res
}

func checkVersion(text string) string {
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#version") {
			return fmt.Sprintf("0:%d(1): error: #version directive is required", i+1)
		}
		if len(strings.Fields(line)) < 2 {
			return fmt.Sprintf("0:%d(1): error: #version directive has no version number", i+1)
		}
		return ""
	}
	return "0:1(1): error: empty shader source"
}

// stripDirectives blanks preprocessor lines, keeping the line count.
func stripDirectives(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

func checkDelimiters(text string) string {
	pairs := map[rune]rune{')': '(', '}': '{', ']': '['}
	var stack []rune
	line := 1
	for _, r := range text {
		switch r {
		case '\n':
			line++
		case '(', '{', '[':
			stack = append(stack, r)
		case ')', '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return fmt.Sprintf("0:%d: error: syntax error, unexpected '%c'", line, r)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return fmt.Sprintf("0:%d: error: syntax error, unexpected end of file, expecting matching '%c'", line, closing(stack[len(stack)-1]))
	}
	return ""
}

func closing(r rune) rune {
	switch r {
	case '(':
		return ')'
	case '[':
		return ']'
	}
	return '}'
}

// checkStatements rejects a statement that runs into a closing brace without
// its terminating semicolon.
func checkStatements(text string) string {
	line := 1
	pending := false
	depth := 0
	for _, r := range text {
		switch {
		case r == '\n':
			line++
		case r == '(':
			depth++
			pending = true
		case r == ')':
			depth--
		case r == ';' || r == '{':
			pending = false
		case r == '}':
			if pending && depth == 0 {
				return fmt.Sprintf("0:%d: error: syntax error, unexpected '}', expecting ';'", line)
			}
			pending = false
		case r == ' ' || r == '\t' || r == '\r':
		default:
			pending = true
		}
	}
	if pending {
		return fmt.Sprintf("0:%d: error: syntax error, unexpected end of file", line)
	}
	return ""
}

func constantColour(body, output string) (mgl32.Vec4, bool) {
	assign := regexp.MustCompile(`\b` + regexp.QuoteMeta(output) + `\s*=\s*vec4\s*\(([^()]*)\)\s*;`)
	m := assign.FindStringSubmatch(body)
	if m == nil {
		return mgl32.Vec4{}, false
	}

	var comps []float32
	for _, field := range strings.Split(m[1], ",") {
		field = strings.TrimRight(strings.TrimSpace(field), "fF")
		v, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return mgl32.Vec4{}, false
		}
		comps = append(comps, float32(v))
	}

	switch len(comps) {
	case 1:
		return mgl32.Vec4{comps[0], comps[0], comps[0], comps[0]}, true
	case 4:
		return mgl32.Vec4{comps[0], comps[1], comps[2], comps[3]}, true
	}
	return mgl32.Vec4{}, false
}
