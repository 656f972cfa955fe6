package model

import "strings"

// Perspective stores script bodies pre-indented one level, ready to sit under
// a def header. formatScript supplies the header and normalizes empty bodies
// so the result parses on its own.
func formatScript(header, body string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	trimmed := strings.TrimRight(body, "\n\t ")
	if strings.TrimSpace(trimmed) == "" {
		b.WriteString("\tpass")
		return b.String()
	}
	for i, line := range strings.Split(trimmed, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, "\t") && !strings.HasPrefix(line, " ") {
			b.WriteByte('\t')
		}
		b.WriteString(line)
	}
	return b.String()
}

func (s *MessageHandlerScript) FormattedBody() string {
	return formatScript("def onMessageReceived(self, payload):", s.Body)
}

func (s *CustomMethodScript) FormattedBody() string {
	params := append([]string{"self"}, s.Params...)
	return formatScript("def "+s.MethodName+"("+strings.Join(params, ", ")+"):", s.Body)
}

func (s *TransformScript) FormattedBody() string {
	return formatScript("def transform(self, value, quality, timestamp):", s.Body)
}

func (s *EventHandlerScript) FormattedBody() string {
	return formatScript("def runAction(self, event):", s.Body)
}
