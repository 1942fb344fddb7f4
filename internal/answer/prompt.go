package answer

import (
	"fmt"
	"strings"

	"github.com/pigeonic/banglachat/internal/catalog"
)

const systemPrompt = `তুমি একজন সহায়ক বাংলা এআই অ্যাসিস্ট্যান্ট। সবসময় শুদ্ধ, সহজবোধ্য বাংলায় উত্তর দেবে।
নিশ্চিত না হলে সেটা স্পষ্ট করে বলবে, তথ্য বানিয়ে বলবে না।`

var levelGuide = map[catalog.Difficulty]string{
	catalog.Easy:   "খুব সহজ ভাষায়, ছোট বাক্যে, দুই-তিন বাক্যের মধ্যে উত্তর দাও।",
	catalog.Medium: "সাধারণ পাঠকের উপযোগী করে, প্রয়োজনে একটি উদাহরণসহ উত্তর দাও।",
	catalog.Hard:   "বিস্তারিত ও গভীর বিশ্লেষণসহ উত্তর দাও, প্রাসঙ্গিক পরিভাষা ব্যবহার করতে পারো।",
}

func buildSystemPrompt(topic catalog.Topic, level catalog.Difficulty) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "বিষয়: %s\n", topic.Label)
	fmt.Fprintf(&b, "কাঠিন্য: %s। %s\n", level.Label(), levelGuide[level])
	b.WriteString("উৎস জানা থাকলে sources তালিকায় দাও, না থাকলে খালি তালিকা দাও।")
	return b.String()
}
