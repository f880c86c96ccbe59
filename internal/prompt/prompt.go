// Package prompt 以确定性方式渲染发给语言模型的指令文本。
// 核心策略是"整包上下文只发一次"：会话首轮嵌入全部检索数据或文稿全文，
// 后续轮次只发问题加格式提醒，依赖模型侧的对话历史保持状态。
package prompt

import (
	"fmt"
	"strings"

	"minutes-qa-go/internal/model"
	"minutes-qa-go/pkg/textutil"
)

const (
	// 单条记录摘要的最大长度
	maxSummaryLen = 700
	// 文稿全文的最大长度，超出时保留尾部
	maxTranscriptLen = 120000
)

// 固定的格式规则块。
const formattingRules = `Formatting rules:
- Answer in plain text, no markdown tables.
- Cite items by their [number] when you reference them.
- If the provided data does not contain the answer, say so plainly instead of guessing.`

// 固定的角色设定块（静态履历文本）。
const identityContext = `You are the meetings assistant for a small analysis team. You have read the
team's meeting records and call transcripts and answer questions about them.
You are precise with dates, names and countries, and you never invent records
that are not in the provided data.`

// 文稿问答的固定指令块。
const transcriptInstructions = `You will be given the full text of one meeting transcript. Answer questions
strictly from this transcript. Quote short passages when useful. If something
is not covered by the transcript, say so.`

// 后续轮次只附带的格式提醒。
const followUpReminder = "(Reply in plain text, keep the same formatting rules as before.)"

// Fingerprint 把通用问答的过滤参数序列化为确定性的上下文指纹。
// 指纹变化意味着底层数据换了，旧会话历史必须作废。
func Fingerprint(from, to, recordType, countries, topic string) string {
	return fmt.Sprintf("from=%s|to=%s|type=%s|countries=%s|topic=%s",
		from, to, recordType, countries, topic)
}

// BuildGeneral 渲染通用问答的指令文本。
// isNew 为真时嵌入完整的检索数据块，否则只发问题与提醒。
func BuildGeneral(question, style string, records []model.MeetingRecord, isNew bool) string {
	if !isNew {
		return question + "\n\n" + followUpReminder
	}

	var b strings.Builder
	b.WriteString(formattingRules)
	b.WriteString("\n\n")
	b.WriteString(identityContext)
	b.WriteString("\n\n")
	b.WriteString(brevityDirective(style))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nData:\n")
	if len(records) == 0 {
		b.WriteString("(no matching records)\n")
		return b.String()
	}
	for i, r := range records {
		b.WriteString(fmt.Sprintf("[%d] %s — %s", i+1, r.Headline, r.Date))
		if r.Countries != "" {
			b.WriteString(" — " + r.Countries)
		}
		b.WriteString("\n")
		if summary := textutil.CollapseSpace(r.Summary); summary != "" {
			b.WriteString(textutil.Clip(summary, maxSummaryLen))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// BuildTranscript 渲染文稿问答的指令文本。
// 同一文稿的首轮嵌入全文（超长保留尾部），后续轮次只发问题。
func BuildTranscript(question, transcriptText string, isNew bool) string {
	if !isNew {
		return question + "\n\n" + followUpReminder
	}

	var b strings.Builder
	b.WriteString(transcriptInstructions)
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(textutil.ClipTail(transcriptText, maxTranscriptLen))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

// brevityDirective 依据 style 标志选择简洁度指令。
func brevityDirective(style string) string {
	if style == "short" {
		return "Keep the answer under 150 words."
	}
	return "Keep the answer under 1800 characters."
}
