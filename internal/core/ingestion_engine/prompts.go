package ingestion_engine

import "strings"

const extractionTemplate = `Analyze the following academic subject outline and extract the required information in JSON format.

Outline content:
<<<
{{OUTLINE}}
>>>

Return ONLY a JSON object with exactly this structure:
{
  "subjects": ["subject names found in headers, titles or course information"],
  "topics": ["lecture topics from the timetable of activities, in timetable order"],
  "mapping": {
    "Lecture Topic 1": ["focus topic 1.1", "focus topic 1.2"],
    "Lecture Topic 2": []
  }
}

Instructions:
1. Look for subject names in headers, titles, or course information.
2. Find lecture topics in the timetable of activities section.
3. For each lecture topic, list only the focus topics (subtopics mentioned for that specific lecture or week).
4. If a lecture topic has no specific focus topics, map it to an empty array [].
5. Every key in "mapping" must appear exactly as written in "topics".
6. Return clean, readable names without numbering, dates or extra formatting.
7. Return ONLY the JSON object, no other text.`

// buildExtractionPrompt is deterministic for a given text.
func buildExtractionPrompt(text string) string {
	return strings.Replace(extractionTemplate, "{{OUTLINE}}", text, 1)
}
