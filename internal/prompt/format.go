package prompt

import (
	"fmt"
	"strings"
)

// Format names a model family's special-token framing. The study holds every
// hyperparameter constant across models; the framing is the only per-model
// variability.
type Format string

const (
	// Alpaca is the instruction/response framing DeepSeek-R1 distills accept.
	Alpaca Format = "alpaca"
	// DeepSeek is the native R1 chat framing.
	DeepSeek Format = "deepseek"
	// ChatML is the <|im_start|> framing used by Qwen-family chat models.
	ChatML Format = "chatml"
	// Llama is the [INST] framing used by Llama-2 chat models.
	Llama Format = "llama"
)

// AllFormats returns the supported formats in canonical order.
func AllFormats() []Format {
	return []Format{Alpaca, DeepSeek, ChatML, Llama}
}

// ParseFormat validates a CLI/config format value.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range AllFormats() {
		if f == v {
			return f, nil
		}
	}
	names := make([]string, 0, len(AllFormats()))
	for _, v := range AllFormats() {
		names = append(names, string(v))
	}
	return "", fmt.Errorf("unknown prompt format %q (valid: %s)", s, strings.Join(names, ", "))
}

// Frame wraps a system and user prompt in the format's special tokens.
func (f Format) Frame(system, user string) (string, error) {
	system = strings.TrimSpace(system)
	user = strings.TrimSpace(user)
	switch f {
	case Alpaca:
		return "### Instruction:\n" + system + "\n\n" + user + "\n\n### Response:\n", nil
	case DeepSeek:
		return "<｜begin▁of▁sentence｜>" + system + "<｜User｜>" + user + "<｜Assistant｜>", nil
	case ChatML:
		return "<|im_start|>system\n" + system + "<|im_end|>\n" +
			"<|im_start|>user\n" + user + "<|im_end|>\n" +
			"<|im_start|>assistant\n", nil
	case Llama:
		return "<s>[INST] <<SYS>>\n" + system + "\n<</SYS>>\n\n" + user + " [/INST]", nil
	}
	return "", fmt.Errorf("unknown prompt format %q", string(f))
}
