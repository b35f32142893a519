package entities

// Read models nesting the catalog the way public endpoints render it.

type LessonNode struct {
	Lesson   Lesson
	Comments []Comment
}

type ModuleNode struct {
	Module  Module
	Lessons []LessonNode
}

type TopicNode struct {
	Topic   Topic
	Modules []ModuleNode
}

type CategoryNode struct {
	Category Category
	Topics   []TopicNode
}
