package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/aledger/pkg/model"
)

const promptTemplate = `你是一個精確的記帳助手。請從使用者的輸入中提取「所有」消費資訊。

使用者可能會在一段話中輸入多筆消費，請將它們全部分離出來。
如果日期未指定，請預設使用今天 (%[1]s)。如果使用者說「昨天」，請計算出正確日期 (%[2]s)。

請務必將消費歸類為以下六種之一：%[3]s。

只輸出一個 JSON 陣列，每個元素只包含以下四個欄位：
- "date": 格式為 YYYY-MM-DD
- "item": 消費項目名稱
- "amount": 金額（數字）
- "category": 分類，必須是 %[3]s 之一
如果沒有任何消費，輸出 []。

輸入內容: "%[4]s"`

// BuildPrompt renders the instruction sent to the model for freeText. today
// anchors relative dates.
func BuildPrompt(freeText string, today time.Time) string {
	cats := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		cats[i] = string(c)
	}
	return fmt.Sprintf(promptTemplate,
		today.Format(model.DateLayout),
		today.AddDate(0, 0, -1).Format(model.DateLayout),
		strings.Join(cats, "、"),
		freeText,
	)
}
