// Package schema holds the typed records parsed from domain-models documents.
//
// A document declares entities and enumerations inside a module:
//
//	<domain-models>
//	  <module name="sales" package="com.example.sales"/>
//	  <entity name="Order" audit="true">
//	    <string name="reference" required="true" unique="true"/>
//	    <decimal name="total"/>
//	    <many-to-one name="customer" ref="Customer"/>
//	  </entity>
//	  <enum name="OrderStatus">
//	    <item name="DRAFT" value="draft" title="Draft"/>
//	  </enum>
//	</domain-models>
//
// Several documents may declare fragments of the same entity. Each fragment is
// an [*Entity] value; the merge engine combines them into one canonical entity
// before emission.
//
// # Definitions
//
// [Definition] is a closed sum type over [*Entity] and [*Enum]. Consumers
// dispatch with a type switch:
//
//	switch d := def.(type) {
//	case *schema.Entity:
//	    ...
//	case *schema.Enum:
//	    ...
//	}
package schema
