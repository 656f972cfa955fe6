package model_test

import (
	"testing"

	"github.com/viewlint/viewlint/model"
)

func TestFormattedBodies(t *testing.T) {
	m := buildSample(t)

	cases := []struct {
		kind model.Kind
		want string
	}{
		{model.KindMessageHandlerScript, "def onMessageReceived(self, payload):\n\tself.custom.greeting = payload['v']"},
		{model.KindCustomMethodScript, "def refresh(self, source):\n\tself.getChild('StatusLabel')"},
		{model.KindTransformScript, "def transform(self, value, quality, timestamp):\n\treturn value.upper()"},
		{model.KindEventHandlerScript, "def runAction(self, event):\n\tprint('clicked')"},
	}
	for _, tc := range cases {
		nodes := m.NodesOfKind(tc.kind)
		if len(nodes) != 1 {
			t.Fatalf("%s: %d nodes", tc.kind, len(nodes))
		}
		got := nodes[0].(model.Script).FormattedBody()
		if got != tc.want {
			t.Errorf("%s formatted body = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestFormattedBodyEmptyScript(t *testing.T) {
	s := &model.MessageHandlerScript{MessageType: "noop"}
	got := s.FormattedBody()
	want := "def onMessageReceived(self, payload):\n\tpass"
	if got != want {
		t.Errorf("formatted body = %q, want %q", got, want)
	}
}

func TestFormattedBodyUnindentedLines(t *testing.T) {
	s := &model.CustomMethodScript{MethodName: "go", Params: []string{"a", "b"}}
	s.Body = "x = 1\n\ty = 2"
	got := s.FormattedBody()
	want := "def go(self, a, b):\n\tx = 1\n\ty = 2"
	if got != want {
		t.Errorf("formatted body = %q, want %q", got, want)
	}
}
