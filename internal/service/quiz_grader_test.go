package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/eskwela-dev/eskwela-go-api/internal/models"
)

func quizQuestions() []models.Question {
	return []models.Question{
		{Position: 1, Type: models.QuestionMultiple, Points: 2, CorrectAnswers: datatypes.JSON(`[2]`)},
		{Position: 2, Type: models.QuestionTrueFalse, Points: 1, CorrectAnswers: datatypes.JSON(`true`)},
		{Position: 3, Type: models.QuestionIdentification, Points: 2, CorrectAnswers: datatypes.JSON(`"Mitochondria"`)},
	}
}

func TestGradeQuizAllCorrect(t *testing.T) {
	score, checked := gradeQuiz(quizQuestions(), []interface{}{float64(2), true, "Mitochondria"})

	require.Equal(t, 5, score)
	require.Len(t, checked, 3)
	for _, entry := range checked {
		require.True(t, entry.Correct)
	}
}

func TestGradeQuizPartiallyCorrect(t *testing.T) {
	score, checked := gradeQuiz(quizQuestions(), []interface{}{float64(1), true, "mitochondria"})

	require.Equal(t, 1, score)
	require.False(t, checked[0].Correct)
	require.True(t, checked[1].Correct)
	// Identification is strict: case differences are wrong answers.
	require.False(t, checked[2].Correct)
}

func TestGradeQuizMissingAnswers(t *testing.T) {
	score, checked := gradeQuiz(quizQuestions(), []interface{}{float64(2)})

	require.Equal(t, 2, score)
	require.Len(t, checked, 3)
	require.True(t, checked[0].Correct)
	require.False(t, checked[1].Correct)
	require.False(t, checked[2].Correct)
	require.Nil(t, checked[1].StudentAnswer)
}

func TestGradeQuizMalformedAnswersNeverPanic(t *testing.T) {
	answers := []interface{}{
		map[string]interface{}{"weird": true},
		"not a bool",
		[]interface{}{1, 2},
	}

	score, checked := gradeQuiz(quizQuestions(), answers)

	require.Equal(t, 0, score)
	for _, entry := range checked {
		require.False(t, entry.Correct)
	}
}

func TestGradeQuizMultiAnswerSetMustMatchExactly(t *testing.T) {
	questions := []models.Question{
		{Position: 1, Type: models.QuestionMultiple, Points: 3, CorrectAnswers: datatypes.JSON(`[0, 2]`)},
	}

	score, _ := gradeQuiz(questions, []interface{}{[]interface{}{float64(0), float64(2)}})
	require.Equal(t, 3, score)

	// Subsets and supersets earn nothing; there is no partial credit.
	score, _ = gradeQuiz(questions, []interface{}{[]interface{}{float64(0)}})
	require.Equal(t, 0, score)

	score, _ = gradeQuiz(questions, []interface{}{[]interface{}{float64(0), float64(1), float64(2)}})
	require.Equal(t, 0, score)
}

func TestGradeQuizBareIndexKey(t *testing.T) {
	questions := []models.Question{
		{Position: 1, Type: models.QuestionMultiple, Points: 1, CorrectAnswers: datatypes.JSON(`3`)},
	}

	score, checked := gradeQuiz(questions, []interface{}{float64(3)})

	require.Equal(t, 1, score)
	require.True(t, checked[0].Correct)
}

func TestGradeQuizCorrectAnswerSurfacedForAudit(t *testing.T) {
	questions := []models.Question{
		{Position: 1, Type: models.QuestionMultiple, Points: 1, CorrectAnswers: datatypes.JSON(`[2]`)},
		{Position: 2, Type: models.QuestionIdentification, Points: 1, CorrectAnswers: datatypes.JSON(`"Rizal"`)},
	}

	_, checked := gradeQuiz(questions, []interface{}{float64(0), "Bonifacio"})

	require.Equal(t, float64(2), checked[0].CorrectAnswer)
	require.Equal(t, "Rizal", checked[1].CorrectAnswer)
}
