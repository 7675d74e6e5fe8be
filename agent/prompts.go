package agent

// DefaultSystemPrompt seeds the memory of every agent that does not set SystemPrompt.
const DefaultSystemPrompt = "You are a helpful assistant called {{.name}} that must help the user."

// DefaultNextStepPrompt is sent with every model call as per-turn guidance.
const DefaultNextStepPrompt = `Your job is to analyze the user's message carefully and determine the appropriate tool to use.

- Mathematical operations: ALWAYS use a tool for any mathematical calculation. Do not attempt to compute manually.
- External information: ALWAYS use a tool to retrieve facts you do not already have in the conversation.
- Missing details: ask the user with a tool instead of guessing.

Call only one tool at a time. Reflect whether you actually need a tool and never repeat a tool call.
When no tool is needed, answer the user directly.{{if .tools}}

Available tools: {{join ", " .tools}}.{{end}}`
