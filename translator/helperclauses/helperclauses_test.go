package helperclauses_test

import (
	"fmt"
	"testing"

	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/Anon10214/cypherc/translator"
	"github.com/Anon10214/cypherc/translator/helperclauses"
	"github.com/stretchr/testify/assert"
)

func compileClause(clause translator.Clause) string {
	return translator.Build(clause, config.Default()).Text
}

func ExampleEmptyClause() {
	fmt.Println(
		len(compileClause(&helperclauses.EmptyClause{})),
	)
	// Output: 0
}

func ExampleStringer() {
	fmt.Println(
		compileClause(helperclauses.CreateStringer("ABC")),
	)
	// Output: ABC
}

func ExampleAssembler() {
	stringer1 := helperclauses.CreateStringer("hello")
	stringer2 := helperclauses.CreateStringer("world")

	subclauses := []translator.Clause{stringer1, stringer2}
	templateString := "%s - %s"

	fmt.Println(
		compileClause(
			helperclauses.CreateAssembler(templateString, subclauses...),
		),
	)
	// Output: hello - world
}

func ExampleAssembler_withoutTemplateString() {
	stringer1 := helperclauses.CreateStringer("no")
	stringer2 := helperclauses.CreateStringer("spaces")

	subclauses := []translator.Clause{stringer1, stringer2}

	fmt.Println(
		compileClause(
			helperclauses.CreateAssemblerWithoutTemplateString(subclauses...),
		),
	)
	// Output: nospaces
}

func ExampleJoiner() {
	fmt.Println(
		compileClause(
			helperclauses.CreateJoiner(", ",
				helperclauses.CreateStringer("a"),
				helperclauses.CreateStringer("b"),
				helperclauses.CreateStringer("c"),
			),
		),
	)
	// Output: a, b, c
}

func ExamplePrefixed() {
	fmt.Printf("%q\n", compileClause(helperclauses.CreatePrefixed("\n", helperclauses.CreateStringer("WHERE x"))))
	fmt.Printf("%q\n", compileClause(helperclauses.CreatePrefixed("\n", &helperclauses.EmptyClause{})))
	// Output:
	// "\nWHERE x"
	// ""
}

func TestStringer_EscapePercentage(t *testing.T) {
	assert.Equal(t, "%", compileClause(helperclauses.CreateStringer("%")), "Percentage signs were escaped incorrectly")
}

func TestJoiner_EscapeSeparator(t *testing.T) {
	joiner := helperclauses.CreateJoiner(" % ", helperclauses.CreateStringer("a"), helperclauses.CreateStringer("b"))
	assert.Equal(t, "a % b", compileClause(joiner), "Separator was escaped incorrectly")
}

func TestJoiner_Empty(t *testing.T) {
	assert.Equal(t, "", compileClause(helperclauses.CreateJoiner(", ")))
}

func TestPrefixed_ResolvesReferencesOnce(t *testing.T) {
	node := translator.NewNode()
	env := translator.NewEnvironment(config.Default())

	clause := helperclauses.CreateAssemblerWithoutTemplateString(
		helperclauses.CreatePrefixed("(", node),
		helperclauses.CreatePrefixed(" ", node),
	)

	assert.Equal(t, "(this0 this0", translator.Compile(env, clause))
	assert.Equal(t, "this0", env.LabelFor(node))
}

func TestHookClause_Empty(t *testing.T) {
	assert.Equal(t, "", compileClause(helperclauses.HookClause{}), "Default hook clause results in non-empty statement")
}

func TestHookClause_Populated(t *testing.T) {
	subclausesChan := make(chan struct{}, 1)
	templateStringChan := make(chan struct{}, 1)

	subclausesHook := func() []translator.Clause { subclausesChan <- struct{}{}; return nil }
	templateStringHook := func() string { templateStringChan <- struct{}{}; return "" }

	compileClause(helperclauses.HookClause{
		SubclausesHook:     subclausesHook,
		TemplateStringHook: templateStringHook,
	})

	// Times out if the hooks aren't called
	<-subclausesChan
	<-templateStringChan
}
