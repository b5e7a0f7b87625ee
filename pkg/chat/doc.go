// Package chat forwards widget visitor messages to a hosted language model.
//
// A Responder loads the bot, renders its instructions and the visitor's
// message into a prompt with BuildPrompt, and returns the model's text
// unchanged. GeminiClient is the Model implementation used in production.
package chat
