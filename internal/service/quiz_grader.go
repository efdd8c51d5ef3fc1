package service

import (
	"encoding/json"

	"github.com/eskwela-dev/eskwela-go-api/internal/models"
)

// gradeQuiz scores submitted answers against the question list and produces
// one audit entry per question. Answers are positional: answers[i] belongs to
// questions[i]. Missing or malformed answers count as incorrect; grading
// never fails on bad input.
func gradeQuiz(questions []models.Question, answers []interface{}) (int, []models.CheckedAnswer) {
	score := 0
	checked := make([]models.CheckedAnswer, 0, len(questions))

	for i, question := range questions {
		var answer interface{}
		if i < len(answers) {
			answer = answers[i]
		}

		correctAnswer := decodeCorrectAnswer(question)
		correct := judgeAnswer(question, answer)
		if correct {
			score += question.Points
		}

		checked = append(checked, models.CheckedAnswer{
			Correct:       correct,
			StudentAnswer: answer,
			CorrectAnswer: correctAnswer,
		})
	}

	return score, checked
}

func judgeAnswer(question models.Question, answer interface{}) bool {
	switch question.Type {
	case models.QuestionMultiple:
		return judgeMultiple(json.RawMessage(question.CorrectAnswers), answer)
	case models.QuestionTrueFalse:
		return judgeTrueFalse(json.RawMessage(question.CorrectAnswers), answer)
	case models.QuestionIdentification:
		return judgeIdentification(json.RawMessage(question.CorrectAnswers), answer)
	default:
		return false
	}
}

// judgeMultiple handles both shapes of multiple-choice keys: a single correct
// index, and the legacy multi-answer form where the submitted set must equal
// the correct set exactly. No partial credit.
func judgeMultiple(key json.RawMessage, answer interface{}) bool {
	correct, ok := decodeIndexSet(key)
	if !ok || len(correct) == 0 {
		return false
	}

	if len(correct) == 1 {
		index, ok := toIndex(answer)
		return ok && index == firstKey(correct)
	}

	submittedList, ok := answer.([]interface{})
	if !ok {
		return false
	}
	submitted := make(map[int]struct{}, len(submittedList))
	for _, v := range submittedList {
		index, ok := toIndex(v)
		if !ok {
			return false
		}
		submitted[index] = struct{}{}
	}

	if len(submitted) != len(correct) {
		return false
	}
	for index := range submitted {
		if _, ok := correct[index]; !ok {
			return false
		}
	}
	return true
}

func judgeTrueFalse(key json.RawMessage, answer interface{}) bool {
	var correct bool
	if err := json.Unmarshal(key, &correct); err != nil {
		return false
	}
	submitted, ok := answer.(bool)
	return ok && submitted == correct
}

// judgeIdentification compares strictly: exact string equality with no case
// or whitespace normalization.
func judgeIdentification(key json.RawMessage, answer interface{}) bool {
	var correct string
	if err := json.Unmarshal(key, &correct); err != nil {
		return false
	}
	submitted, ok := answer.(string)
	return ok && submitted == correct
}

// decodeCorrectAnswer surfaces the canonical correct value for the audit
// entry, whatever shape the key takes.
func decodeCorrectAnswer(question models.Question) interface{} {
	var value interface{}
	if err := json.Unmarshal(question.CorrectAnswers, &value); err != nil {
		return nil
	}

	if question.Type == models.QuestionMultiple {
		if list, ok := value.([]interface{}); ok && len(list) == 1 {
			return list[0]
		}
	}
	return value
}

func decodeIndexSet(key json.RawMessage) (map[int]struct{}, bool) {
	var raw []interface{}
	if err := json.Unmarshal(key, &raw); err != nil {
		// Tolerate a bare index as the key.
		var single float64
		if err := json.Unmarshal(key, &single); err != nil {
			return nil, false
		}
		raw = []interface{}{single}
	}

	set := make(map[int]struct{}, len(raw))
	for _, v := range raw {
		index, ok := toIndex(v)
		if !ok {
			return nil, false
		}
		set[index] = struct{}{}
	}
	return set, true
}

// toIndex accepts the numeric shapes JSON decoding can produce.
func toIndex(value interface{}) (int, bool) {
	switch v := value.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func firstKey(set map[int]struct{}) int {
	for k := range set {
		return k
	}
	return -1
}
