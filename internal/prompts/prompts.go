// Package prompts centralizes the natural-language templates sent to the
// image generation vendor so wording changes never touch pipeline code.
package prompts

import "fmt"

// mascotTemplate turns a voice transcript into an illustration brief. The
// style constraints keep outputs consistent across the gallery wall.
const mascotTemplate = `请根据以下语音内容生成一个原创吉祥物角色插画：
内容：%s
风格要求：可爱、温暖、有性格、颜色柔和，适合在活动中展示。`

// mascotFallback is used when transcription produced no text at all.
const mascotFallback = `请生成一个原创吉祥物角色插画。
风格要求：可爱、温暖、有性格、颜色柔和，适合在活动中展示。`

// Mascot builds the image generation prompt for a transcript.
func Mascot(transcript string) string {
	if transcript == "" {
		return mascotFallback
	}
	return fmt.Sprintf(mascotTemplate, transcript)
}
